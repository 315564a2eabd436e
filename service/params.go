package service

import (
	"strings"
	"time"

	"github.com/vincenteouswilliam/azure-ai-day-demo/models"
)

// BoundParam is a parameter ready for the record store, in query order.
// A nil Value binds as SQL NULL.
type BoundParam struct {
	Name  string
	Value interface{}
}

const (
	dateLayout      = "2006-01-02"
	timestampLayout = "2006-01-02 15:04:05"
)

// BindParameters converts the loosely-typed descriptors of a generated query
// into typed values. The declared type drives the conversion: VARCHAR/TEXT
// become strings, INTEGER int32, FLOAT/NUMERIC float64, DATE/TIMESTAMP
// time.Time. An unknown or absent type passes the raw value through.
//
// A value that cannot be converted to its declared type binds as NULL
// instead of failing the request; the model occasionally mistypes a
// parameter and a NULL comparison is the less disruptive outcome.
func BindParameters(descriptors []models.ParamDescriptor) []BoundParam {
	bound := make([]BoundParam, 0, len(descriptors))
	for _, d := range descriptors {
		bound = append(bound, BoundParam{
			Name:  d.Name,
			Value: convertParamValue(d.Value, d.Type),
		})
	}
	return bound
}

func convertParamValue(value interface{}, declaredType string) interface{} {
	if value == nil {
		return nil
	}

	switch strings.ToUpper(declaredType) {
	case "VARCHAR", "TEXT":
		if s, ok := value.(string); ok {
			return s
		}
		return nil
	case "INTEGER":
		// JSON numbers arrive as float64.
		if f, ok := value.(float64); ok && f == float64(int32(f)) {
			return int32(f)
		}
		return nil
	case "FLOAT", "NUMERIC":
		if f, ok := value.(float64); ok {
			return f
		}
		return nil
	case "TIMESTAMP", "DATE":
		s, ok := value.(string)
		if !ok {
			return nil
		}
		if t, err := time.Parse(timestampLayout, s); err == nil {
			return t
		}
		if t, err := time.Parse(dateLayout, s); err == nil {
			return t
		}
		return nil
	default:
		return value
	}
}
