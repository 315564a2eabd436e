package service

import (
	"html"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
)

// AnswerKind tags the shape the model chose for its answer field.
type AnswerKind int

const (
	AnswerString AnswerKind = iota
	AnswerNumber
	AnswerRecordList
)

// AnswerValue is the model's answer field normalized into a tagged variant.
// The kind is decided once at parse time; Display renders it.
type AnswerValue struct {
	Kind    AnswerKind
	Text    string
	Headers []string
	Records []map[string]string
}

// ParseAnswerValue normalizes the answer field of a model response. Strings
// are taken verbatim, numbers are rendered as integer or floating-point
// text, and arrays become a record list whose header set is the first
// element's keys in document order.
func ParseAnswerValue(raw gjson.Result) (AnswerValue, error) {
	switch {
	case raw.Type == gjson.String:
		return AnswerValue{Kind: AnswerString, Text: raw.String()}, nil
	case raw.Type == gjson.Number:
		text, err := formatNumericAnswer(raw.Raw)
		if err != nil {
			return AnswerValue{}, err
		}
		return AnswerValue{Kind: AnswerNumber, Text: text}, nil
	case raw.IsArray():
		return parseRecordList(raw)
	default:
		return AnswerValue{}, formatErr("answer", "unsupported answer type %s", raw.Type)
	}
}

// Display renders the parsed answer as a single string. Record lists become
// an HTML table.
func (a AnswerValue) Display() string {
	switch a.Kind {
	case AnswerRecordList:
		return RenderHTMLTable(a.Headers, a.Records)
	default:
		return a.Text
	}
}

func formatNumericAnswer(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if n, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return strconv.FormatInt(n, 10), nil
	}
	if f, err := strconv.ParseFloat(raw, 64); err == nil {
		return strconv.FormatFloat(f, 'g', -1, 64), nil
	}
	return "", formatErr("answer", "numeric answer %q is not parseable", raw)
}

func parseRecordList(raw gjson.Result) (AnswerValue, error) {
	var headers []string
	records := make([]map[string]string, 0)

	first := true
	raw.ForEach(func(_, element gjson.Result) bool {
		record := make(map[string]string)
		element.ForEach(func(key, value gjson.Result) bool {
			if first {
				headers = append(headers, key.String())
			}
			record[key.String()] = value.String()
			return true
		})
		first = false
		records = append(records, record)
		return true
	})

	if len(headers) == 0 {
		return AnswerValue{}, formatErr("answer", "record list answer has no columns")
	}

	return AnswerValue{Kind: AnswerRecordList, Headers: headers, Records: records}, nil
}

// RenderHTMLTable renders records as an HTML table: the header row comes
// from headers, each record contributes one <tr> with exactly one <td> per
// header column, and a missing key renders as an empty cell.
func RenderHTMLTable(headers []string, records []map[string]string) string {
	var b strings.Builder
	b.WriteString("<table><thead><tr>")
	for _, h := range headers {
		b.WriteString("<th>")
		b.WriteString(html.EscapeString(h))
		b.WriteString("</th>")
	}
	b.WriteString("</tr></thead><tbody>")
	for _, record := range records {
		b.WriteString("<tr>")
		for _, h := range headers {
			b.WriteString("<td>")
			b.WriteString(html.EscapeString(record[h]))
			b.WriteString("</td>")
		}
		b.WriteString("</tr>")
	}
	b.WriteString("</tbody></table>")
	return b.String()
}
