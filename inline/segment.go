package inline

// Segment is one piece of inline content: *Text, *Product or *Click.
type Segment interface {
	segment()
}

// Text is plain text with its emphasis runs.
type Text struct {
	Value string
	Runs  []Run
}

// Product is an inline product card. Linked is set when it came from an
// explicit SKU link, whose Title, Price and ImageURL override catalog data.
type Product struct {
	ID       string
	Title    string
	Price    string
	ImageURL string
	Linked   bool
}

// Click is an underlined, tappable phrase.
type Click struct {
	Value string
}

func (*Text) segment()    {}
func (*Product) segment() {}
func (*Click) segment()   {}

func newText(s string) *Text {
	return &Text{Value: s, Runs: Style(s)}
}

// Run is a stretch of text sharing one emphasis style.
type Run struct {
	Text   string `json:"text"`
	Bold   bool   `json:"bold,omitempty"`
	Italic bool   `json:"italic,omitempty"`
	Code   bool   `json:"code,omitempty"`
	Strike bool   `json:"strike,omitempty"`
	Link   string `json:"link,omitempty"`
}

func (r Run) sameStyle(o Run) bool {
	return r.Bold == o.Bold && r.Italic == o.Italic && r.Code == o.Code && r.Strike == o.Strike && r.Link == o.Link
}
