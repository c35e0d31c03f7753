package schema

import "strings"

var abbreviations = map[string]string{
	// Common Nouns
	"nm": "name", "dt": "date", "no": "number", "cd": "code",
	"desc": "description", "amt": "amount", "cnt": "count", "qty": "quantity",
	"addr": "address", "tel": "phone", "ph": "phone", "mobile": "phone",
	"pwd": "password", "passwd": "password", "pw": "password",
	"img": "image", "avatar": "image", "url": "url", "zip": "zipcode",
	"msg": "message", "txt": "text", "bio": "text", "body": "text",
	"subj": "subject", "usr": "user", "emp": "employee",
	"cat": "category", "lat": "latitude", "lng": "longitude", "lon": "longitude",
	"mail": "email", "price": "price", "cost": "price",

	// Verbs / Status
	"reg": "registered", "mod": "modified", "del": "deleted", "cre": "created",
	"upd": "updated", "yn": "yesno", "is": "yesno", "flg": "flag",
	"stat": "status", "sts": "status", "seq": "sequence", "idx": "index",
}

// AnalyzeMeaning decodes abbreviations in a column name ("usr_addr" becomes
// "user address"). The seed generator uses it to pick realistic values.
func AnalyzeMeaning(colName string) string {
	n := strings.ToLower(colName)

	parts := strings.FieldsFunc(n, func(r rune) bool { return r == '_' || r == ' ' || r == '-' })
	decodedParts := make([]string, 0, len(parts))
	for _, part := range parts {
		if full, ok := abbreviations[part]; ok {
			decodedParts = append(decodedParts, full)
		} else {
			decodedParts = append(decodedParts, part)
		}
	}

	return strings.Join(decodedParts, " ")
}
