package components

import (
	"strconv"

	"wordsearch/internal/viewmodel"
)

func tapURL(gameID string) string {
	return "/game/" + gameID + "/tap"
}

func cellValue(c viewmodel.Cell) string {
	return strconv.Itoa(c.X) + "," + strconv.Itoa(c.Y)
}

func cellClass(c viewmodel.Cell) string {
	class := "cell"
	if c.Selected {
		class += " selected"
	}
	if c.Found {
		class += " found"
	}
	return class
}

func wordClass(w viewmodel.WordEntry) string {
	if w.Found {
		return "word done"
	}
	return "word"
}

func messageClass(data viewmodel.StatusFragment) string {
	if data.Complete {
		return "message complete"
	}
	return "message"
}
