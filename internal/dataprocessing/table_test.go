package dataprocessing

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadTable(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantCols []string
		wantRows [][]string
		wantErr  error
	}{
		{
			name:     "header and rows",
			input:    "team,Scored?\nA,1\nB,0\n",
			wantCols: []string{"team", "Scored?"},
			wantRows: [][]string{{"A", "1"}, {"B", "0"}},
		},
		{
			name:     "byte order mark stripped",
			input:    "\xEF\xBB\xBFteam\nA\n",
			wantCols: []string{"team"},
			wantRows: [][]string{{"A"}},
		},
		{
			name:     "short rows padded",
			input:    "a,b,c\n1\n",
			wantCols: []string{"a", "b", "c"},
			wantRows: [][]string{{"1", "", ""}},
		},
		{
			name:     "repeated header names suffixed",
			input:    "Player,Player,Start\nzed,amy,own\n",
			wantCols: []string{"Player", "Player.1", "Start"},
			wantRows: [][]string{{"zed", "amy", "own"}},
		},
		{
			name:     "headers differing in case kept apart",
			input:    "Team,team\nHammers,x\n",
			wantCols: []string{"Team", "team"},
			wantRows: [][]string{{"Hammers", "x"}},
		},
		{
			name:  "empty input",
			input: "",
		},
		{
			name:    "long row rejected",
			input:   "a\n1,2\n",
			wantErr: ErrMalformedRow,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table, err := ReadTable(strings.NewReader(tt.input))
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantCols, table.Columns)
			assert.Equal(t, tt.wantRows, table.Rows)
		})
	}
}

func TestSetColumn(t *testing.T) {
	table := &Table{Columns: []string{"team", "Match"}, Rows: [][]string{{"A", "old"}, {"B", "old"}}}

	table.SetColumn("Match", "A @ B")
	table.SetColumn("week", "3")
	table.SetColumn("match", "C @ D")

	assert.Equal(t, []string{"team", "Match", "week", "match"}, table.Columns)
	assert.Equal(t, [][]string{
		{"A", "A @ B", "3", "C @ D"},
		{"B", "A @ B", "3", "C @ D"},
	}, table.Rows)
	assert.Equal(t, 3, table.ColumnIndex("match"))
	assert.Equal(t, 1, table.ColumnIndex("MATCH"))
}

func TestColumnIndex(t *testing.T) {
	table := &Table{Columns: []string{" Team ", "Scored?", "team"}}
	assert.Equal(t, 2, table.ColumnIndex("team"))
	assert.Equal(t, 0, table.ColumnIndex("TEAM"))
	assert.Equal(t, 1, table.ColumnIndex("scored?"))
	assert.Equal(t, -1, table.ColumnIndex("week"))
}

func TestConcatTables(t *testing.T) {
	first := &Table{Columns: []string{"team", "x"}, Rows: [][]string{{"A", "1"}}}
	second := &Table{Columns: []string{"y", "team"}, Rows: [][]string{{"2", "B"}, {"3", "C"}}}

	out := ConcatTables([]*Table{first, second})

	assert.Equal(t, []string{"team", "x", "y"}, out.Columns)
	assert.Equal(t, [][]string{
		{"A", "1", ""},
		{"B", "", "2"},
		{"C", "", "3"},
	}, out.Rows)
	assert.Equal(t, first.Len()+second.Len(), out.Len())
}

func TestConcatTablesKeepsEveryColumn(t *testing.T) {
	tests := []struct {
		name     string
		tables   []*Table
		wantCols []string
		wantRows [][]string
	}{
		{
			name:     "names differing in case",
			tables:   []*Table{{Columns: []string{"Team", "team"}, Rows: [][]string{{"Hammers", "x"}}}},
			wantCols: []string{"Team", "team"},
			wantRows: [][]string{{"Hammers", "x"}},
		},
		{
			name:     "repeated names",
			tables:   []*Table{{Columns: []string{"Player", "Player", "Start"}, Rows: [][]string{{"zed", "amy", "own"}}}},
			wantCols: []string{"Player", "Player.1", "Start"},
			wantRows: [][]string{{"zed", "amy", "own"}},
		},
		{
			name: "case variants across files",
			tables: []*Table{
				{Columns: []string{"team"}, Rows: [][]string{{"A"}}},
				{Columns: []string{"Team"}, Rows: [][]string{{"B"}}},
			},
			wantCols: []string{"team", "Team"},
			wantRows: [][]string{{"A", ""}, {"", "B"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := ConcatTables(tt.tables)
			assert.Equal(t, tt.wantCols, out.Columns)
			assert.Equal(t, tt.wantRows, out.Rows)
		})
	}
}

func TestConcatTablesEmpty(t *testing.T) {
	out := ConcatTables(nil)
	assert.Empty(t, out.Columns)
	assert.Zero(t, out.Len())
}
