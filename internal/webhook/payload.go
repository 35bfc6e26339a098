package webhook

// Payload is the JSON body of a Discord webhook execution.
type Payload struct {
	Content string  `json:"content,omitempty"`
	Embeds  []Embed `json:"embeds"`
}

// Embed is a single rich embed.
type Embed struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Timestamp   string  `json:"timestamp"`
	Color       int     `json:"color"`
	Fields      []Field `json:"fields"`
}

// Field is an embed field.
type Field struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline"`
}

// Style controls how one segment kind is presented.
type Style struct {
	Title   string // embed title
	Color   int    // embed side colour, 0xRRGGBB
	Summary string // appended to the description, e.g. "containing CHAT -> SLOWLY TYPING RESPONSE"
	Notice  string // appended to the mention in the message content
}
