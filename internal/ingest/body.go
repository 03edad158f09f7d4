package ingest

// Kind discriminates the populated variant of a Body.
type Kind int

const (
	KindUnknown Kind = iota
	KindJSON
	KindForm
	KindText
	KindRaw
	KindMultipart
)

// String returns the label used in logs and metrics.
func (k Kind) String() string {
	switch k {
	case KindJSON:
		return "json"
	case KindForm:
		return "form"
	case KindText:
		return "text"
	case KindRaw:
		return "raw"
	case KindMultipart:
		return "multipart"
	default:
		return "unknown"
	}
}

// Part is a single part of a multipart body, in wire order.
type Part struct {
	Name        string
	FileName    string
	ContentType string
	Data        []byte
}

// Body is the parsed request body. Exactly one variant field is populated,
// indicated by Kind. A Body is created once per request by the dispatcher,
// stored on the Request, and read-only to all downstream consumers.
type Body struct {
	Kind Kind

	JSON  interface{}
	Form  map[string]string
	Text  string
	Raw   []byte
	Parts []Part
}
