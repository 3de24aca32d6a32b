package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Aman-CERP/evidex/internal/config"
)

func TestTokenize(t *testing.T) {
	tests := []struct {
		name string
		want []string
	}{
		{"OCSO_Police_Report-2023.pdf", []string{"OCSO", "Police", "Report", "2023", "pdf"}},
		{"Exhibit (A) [final] {v2}.docx", []string{"Exhibit", "A", "final", "v2", "docx"}},
		{`dir\sub/file  name.txt`, []string{"dir", "sub", "file", "name", "txt"}},
		{"", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Tokenize(tt.name))
		})
	}
}

func TestDiscoverTerms(t *testing.T) {
	// Given: names with all-caps tokens, stopwords and short tokens
	names := []string{
		"MDCR_Intake_FINAL.pdf",
		"EXHIBIT_B_NOTES.txt",
		"WC-117 form.pdf",
		"NOTES copy.txt",
		"Mixed_CaSe_ABC.doc",
		"ÉTAT_report.txt",
	}
	stop := config.DefaultVocabulary().Stopwords

	// When: discovering terms
	terms := DiscoverTerms(names, stop)

	// Then: only distinct all-caps alphabetic tokens of 4+ runes survive
	assert.Equal(t, []string{"MDCR", "NOTES", "ÉTAT"}, terms)
}

func TestBuild_SeedThenDiscovered(t *testing.T) {
	seed := []config.AliasEntry{
		{Canonical: "OCSO", Aliases: []string{"OCSO", "Oakland County Sheriff"}},
		{Canonical: "FOIA", Aliases: []string{"FOIA", " ", "Freedom of Information"}},
	}

	table := Build(seed, []string{"OCSO", "MDCR", "MDCR", "NOTES"})

	assert.Equal(t, []string{"OCSO", "FOIA", "MDCR", "NOTES"}, table.Canonicals())
	assert.Equal(t, []string{"FOIA", "Freedom of Information"}, table.Aliases("FOIA"))
	assert.Equal(t, []string{"MDCR"}, table.Aliases("MDCR"))
	assert.Equal(t, 4, table.Len())
}

func TestBuild_ReturnsCopies(t *testing.T) {
	table := Build([]config.AliasEntry{{Canonical: "LEO", Aliases: []string{"LEO"}}}, nil)

	table.Canonicals()[0] = "changed"
	table.Aliases("LEO")[0] = "changed"

	assert.Equal(t, []string{"LEO"}, table.Canonicals())
	assert.Equal(t, []string{"LEO"}, table.Aliases("LEO"))
}

func TestMatcher_Count(t *testing.T) {
	table := Build(config.DefaultVocabulary().Aliases, []string{"NOTES"})
	m := NewMatcher(table)

	tests := []struct {
		name string
		text string
		want map[string]int
	}{
		{
			name: "aliases summed, substrings overlap across aliases",
			text: "Cody McKenzie spoke to McKenzie's lawyer",
			want: map[string]int{"Cody McKenzie": 4},
		},
		{
			name: "case-insensitive",
			text: "oakland county sheriff and OCSO",
			want: map[string]int{"OCSO": 2},
		},
		{
			name: "no word boundaries",
			text: "the leopard",
			want: map[string]int{"LEO": 1},
		},
		{
			name: "discovered term",
			text: "see notes",
			want: map[string]int{"NOTES": 1},
		},
		{
			name: "no hits",
			text: "nothing relevant",
			want: map[string]int{},
		},
		{
			name: "empty",
			text: "",
			want: map[string]int{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := m.Count(tt.text)
			require.NotNil(t, got)
			assert.Equal(t, tt.want, got)
			for _, n := range got {
				assert.Greater(t, n, 0)
			}
		})
	}
}
