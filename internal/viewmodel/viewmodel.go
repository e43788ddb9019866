package viewmodel

// HomePage holds data for the landing page.
type HomePage struct {
	Title string
	Date  string
}

// Cell is one tappable grid cell.
type Cell struct {
	X        int
	Y        int
	Letter   string
	Selected bool
	Found    bool
}

// BoardFragment holds data for the letter grid.
type BoardFragment struct {
	GameID string
	Size   int
	Rows   [][]Cell
}

// WordEntry is one word in the word list panel.
type WordEntry struct {
	Word  string
	Found bool
}

// WordsFragment holds data for the word list panel.
type WordsFragment struct {
	Words []WordEntry
	Found int
	Total int
}

// StatusFragment holds the status line under the grid.
type StatusFragment struct {
	Message  string
	Complete bool
}

// GamePage holds data for the main game page template.
type GamePage struct {
	Title    string
	Meta     string
	GameID   string
	ShareURL string
	Board    BoardFragment
	Words    WordsFragment
	Status   StatusFragment
}
