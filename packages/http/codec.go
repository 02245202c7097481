package http

import "strings"

// Codec identifies how a body is encoded or decoded.
type Codec int

const (
	CodecText Codec = iota
	CodecJSON
	CodecURLEncoded
)

func (c Codec) String() string {
	switch c {
	case CodecJSON:
		return "json"
	case CodecURLEncoded:
		return "urlencoded"
	default:
		return "text"
	}
}

// CodecFor selects the codec implied by a content-type value. Matching is
// case-insensitive and ignores parameters such as charset.
func CodecFor(contentType string) Codec {
	ct := strings.ToLower(contentType)
	switch {
	case strings.Contains(ct, MIMEJSON):
		return CodecJSON
	case strings.Contains(ct, MIMEForm):
		return CodecURLEncoded
	default:
		return CodecText
	}
}

// EncodeBody renders the remaining parameters as a request body. JSON
// content types get a JSON object; anything else gets a urlencoded form.
func EncodeBody(contentType string, params *Params) (string, error) {
	if CodecFor(contentType) == CodecJSON {
		data, err := marshalJSON(params)
		if err != nil {
			return "", err
		}
		return string(data), nil
	}
	return FormBody(params), nil
}
