package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danieljhkim/modcheck/internal/pkgspec"
)

func spec(name, version string) pkgspec.InstallSpec {
	return pkgspec.InstallSpec{Name: name, Version: version, Spec: name + "@" + version, Desc: version}
}

func lineTexts(lines []Line) []string {
	texts := make([]string, 0, len(lines))
	for _, line := range lines {
		texts = append(texts, line.Text)
	}
	return texts
}

func TestClassify(t *testing.T) {
	a1 := spec("a", "1.0.0")
	a1Again := spec("a", "1.0.0")
	a2 := spec("a", "2.0.0")

	tests := []struct {
		name string
		have *pkgspec.InstallSpec
		want *pkgspec.InstallSpec
		exp  Status
	}{
		{"identical specs", &a1, &a1Again, StatusMatch},
		{"want absent", &a1, nil, StatusUnwanted},
		{"have absent", nil, &a1, StatusMissing},
		{"different specs", &a1, &a2, StatusMismatched},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.exp, Classify(tt.have, tt.want))
		})
	}
}

func TestClassify_StringEqualityOnly(t *testing.T) {
	have := pkgspec.InstallSpec{Name: "a", Spec: "git+https://example.com/a.git#abc", Desc: "1.0.0 (git+https://example.com/a.git#abc)"}
	want := pkgspec.InstallSpec{Name: "a", Spec: "git+ssh://git@example.com/a.git#abc", Desc: "1.0.0 (git+ssh://git@example.com/a.git#abc)"}

	assert.Equal(t, StatusMismatched, Classify(&have, &want))
}

func TestMerge(t *testing.T) {
	want := map[string]pkgspec.InstallSpec{
		"zeta":  spec("zeta", "1.0.0"),
		"alpha": spec("alpha", "1.0.0"),
		"mid":   spec("mid", "1.0.0"),
	}
	have := map[string]pkgspec.InstallSpec{
		"mid":   spec("mid", "1.0.0"),
		"extra": spec("extra", "0.1.0"),
	}

	table := Merge(want, have)

	require.Len(t, table, 4)
	names := make([]string, 0, len(table))
	for _, entry := range table {
		names = append(names, entry.Name)
	}
	assert.Equal(t, []string{"alpha", "extra", "mid", "zeta"}, names)

	assert.NotNil(t, table[0].Want)
	assert.Nil(t, table[0].Have)
	assert.Nil(t, table[1].Want)
	assert.NotNil(t, table[1].Have)
	assert.NotNil(t, table[2].Want)
	assert.NotNil(t, table[2].Have)

	// inputs are untouched
	assert.Len(t, want, 3)
	assert.Len(t, have, 2)
}

func TestMerge_Empty(t *testing.T) {
	table := Merge(nil, nil)
	assert.Empty(t, table)

	report := Reconcile(table, ReportOptions{All: true, Unwanted: true})
	assert.Empty(t, report.Lines)
	assert.Empty(t, report.Install)
	assert.True(t, report.Satisfied())
}

func TestTable_Filter(t *testing.T) {
	table := Merge(map[string]pkgspec.InstallSpec{
		"@types/node": spec("@types/node", "18.0.0"),
		"colors":      spec("colors", "1.1.1"),
	}, nil)

	kept := table.Filter(func(name string) bool { return name != "@types/node" })

	require.Len(t, kept, 1)
	assert.Equal(t, "colors", kept[0].Name)
	assert.Len(t, table, 2)
}

func TestReconcile(t *testing.T) {
	git := "git+https://github.com/foo/world.git#abcdef1234567890"
	worldWant := pkgspec.InstallSpec{Name: "world", Version: "4.4.4", Spec: git, Desc: "4.4.4 (" + git + ")", Resolved: "https://codeload.example.com/world.tgz"}
	worldHave := pkgspec.InstallSpec{Name: "world", Version: "4.4.4", Spec: "./somewhere", Desc: "4.4.4 (./somewhere)"}

	want := map[string]pkgspec.InstallSpec{
		"colors":    spec("colors", "1.1.1"),
		"commander": spec("commander", "2.9.0"),
		"foo":       spec("foo", "2.2.2"),
		"world":     worldWant,
	}
	have := map[string]pkgspec.InstallSpec{
		"bluebird":  spec("bluebird", "3.5.0"),
		"colors":    spec("colors", "1.1.2"),
		"commander": spec("commander", "2.9.0"),
		"world":     worldHave,
	}
	table := Merge(want, have)

	tests := []struct {
		name      string
		opts      ReportOptions
		wantLines []string
	}{
		{
			name: "default",
			opts: ReportOptions{Unwanted: true},
			wantLines: []string{
				"✗ bluebird: 3.5.0 is unwanted",
				"✗ colors: 1.1.2 should be 1.1.1",
				"✗ foo: 2.2.2 is missing",
				"✗ world: 4.4.4 (./somewhere) should be 4.4.4 (" + git + ")",
			},
		},
		{
			name: "all",
			opts: ReportOptions{All: true, Unwanted: true},
			wantLines: []string{
				"✗ bluebird: 3.5.0 is unwanted",
				"✗ colors: 1.1.2 should be 1.1.1",
				"✓ commander: 2.9.0 matches",
				"✗ foo: 2.2.2 is missing",
				"✗ world: 4.4.4 (./somewhere) should be 4.4.4 (" + git + ")",
			},
		},
		{
			name: "no unwanted",
			opts: ReportOptions{},
			wantLines: []string{
				"✗ colors: 1.1.2 should be 1.1.1",
				"✗ foo: 2.2.2 is missing",
				"✗ world: 4.4.4 (./somewhere) should be 4.4.4 (" + git + ")",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			report := Reconcile(table, tt.opts)

			assert.Equal(t, tt.wantLines, lineTexts(report.Lines))
			// resolved locator wins over the specifier
			assert.Equal(t, []string{"colors@1.1.1", "foo@2.2.2", "https://codeload.example.com/world.tgz"}, report.Install)
			assert.False(t, report.Satisfied())
			assert.Equal(t, 1, report.Counts[StatusMatch])
			assert.Equal(t, 1, report.Counts[StatusUnwanted])
			assert.Equal(t, 1, report.Counts[StatusMissing])
			assert.Equal(t, 2, report.Counts[StatusMismatched])
		})
	}
}

func TestReconcile_LineParts(t *testing.T) {
	table := Merge(
		map[string]pkgspec.InstallSpec{"colors": spec("colors", "1.1.1")},
		map[string]pkgspec.InstallSpec{"colors": spec("colors", "1.1.2")},
	)

	report := Reconcile(table, ReportOptions{})

	require.Len(t, report.Lines, 1)
	line := report.Lines[0]
	assert.Equal(t, LineStatus, line.Kind)
	assert.Equal(t, StatusMismatched, line.Status)
	assert.Equal(t, "✗", line.Mark)
	assert.Equal(t, "colors", line.Name)
	assert.Equal(t, ": 1.1.2 ", line.Detail)
	assert.Equal(t, "should be 1.1.1", line.Verdict)
	assert.Equal(t, "✗ colors: 1.1.2 should be 1.1.1", line.String())
}

func TestReconcile_Idempotent(t *testing.T) {
	want := map[string]pkgspec.InstallSpec{"b": spec("b", "2.0.0"), "a": spec("a", "1.0.0")}
	have := map[string]pkgspec.InstallSpec{"c": spec("c", "3.0.0")}

	first := Reconcile(Merge(want, have), ReportOptions{All: true, Unwanted: true})
	second := Reconcile(Merge(want, have), ReportOptions{All: true, Unwanted: true})

	assert.Equal(t, first, second)
	assert.Equal(t, []string{"a@1.0.0", "b@2.0.0"}, first.Install)
}

func TestStatus_String(t *testing.T) {
	assert.Equal(t, "match", StatusMatch.String())
	assert.Equal(t, "unwanted", StatusUnwanted.String())
	assert.Equal(t, "missing", StatusMissing.String())
	assert.Equal(t, "mismatched", StatusMismatched.String())
	assert.Equal(t, "unknown", Status(42).String())

	text, err := StatusMissing.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "missing", string(text))
}
