package pages

func streamURL(gameID string) string {
	return "/game/" + gameID + "/stream"
}

func reloadURL(gameID string) string {
	return "/game/" + gameID + "/reload"
}
