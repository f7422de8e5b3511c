package prestashop

import "encoding/json"

// LocalizedName decodes the product name field, which PrestaShop serializes
// in several shapes depending on shop language configuration: a plain
// string, a list of per-locale values, or a language object with #text
// nodes. Shapes are tried in priority order; an unrecognised shape decodes
// to an empty value rather than an error.
type LocalizedName struct {
	Value string
}

func (n *LocalizedName) UnmarshalJSON(data []byte) error {
	decoders := []func([]byte) (string, bool){
		decodePlainName,
		decodeLocaleListName,
		decodeLanguageObjectName,
	}
	for _, decode := range decoders {
		if v, ok := decode(data); ok {
			n.Value = v
			return nil
		}
	}
	n.Value = ""
	return nil
}

func decodePlainName(data []byte) (string, bool) {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return "", false
	}
	return s, true
}

func decodeLocaleListName(data []byte) (string, bool) {
	var entries []struct {
		Value string `json:"value"`
	}
	if err := json.Unmarshal(data, &entries); err != nil {
		return "", false
	}
	for _, e := range entries {
		if e.Value != "" {
			return e.Value, true
		}
	}
	return "", len(entries) > 0
}

func decodeLanguageObjectName(data []byte) (string, bool) {
	var wrapper struct {
		Language json.RawMessage `json:"language"`
	}
	if err := json.Unmarshal(data, &wrapper); err != nil || len(wrapper.Language) == 0 {
		return "", false
	}
	var one struct {
		Text string `json:"#text"`
	}
	if err := json.Unmarshal(wrapper.Language, &one); err == nil {
		return one.Text, true
	}
	var many []struct {
		Text string `json:"#text"`
	}
	if err := json.Unmarshal(wrapper.Language, &many); err == nil && len(many) > 0 {
		return many[0].Text, true
	}
	return "", false
}
