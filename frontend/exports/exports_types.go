package exports

type PageData struct {
	From string
	To   string
}
