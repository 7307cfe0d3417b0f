package harness

import (
	"strconv"
	"strings"

	"github.com/occablas/occablas/args"
)

// CaseName derives the canonical case name from the routine's argument
// model: the precision-prefixed routine name followed by each model key
// and its value.
func CaseName(fn string, a args.Arguments) string {
	var sb strings.Builder
	sb.WriteString(a.Precision)
	sb.WriteString(fn)

	model := modelKeys(fn)
	for _, key := range model {
		sb.WriteByte('_')
		sb.WriteString(key)
		sb.WriteByte('_')
		sb.WriteString(fieldValue(a, key))
	}
	return sb.String()
}

func modelKeys(fn string) []string {
	if d, ok := drivers[fn]; ok {
		return d.Model
	}
	return nil
}

// ModelFields returns the model's key/value pairs for the result log line.
func ModelFields(fn string, a args.Arguments) map[string]string {
	fields := make(map[string]string)
	for _, key := range modelKeys(fn) {
		fields[key] = fieldValue(a, key)
	}
	return fields
}

func fieldValue(a args.Arguments, key string) string {
	switch key {
	case "M":
		return strconv.Itoa(a.M)
	case "N":
		return strconv.Itoa(a.N)
	case "lda":
		return strconv.Itoa(a.Lda)
	case "ldb":
		return strconv.Itoa(a.Ldb)
	case "ldc":
		return strconv.Itoa(a.Ldc)
	case "incx":
		return strconv.Itoa(a.Incx)
	case "incy":
		return strconv.Itoa(a.Incy)
	case "alpha":
		return formatScalar(a.Alpha)
	case "beta":
		return formatScalar(a.Beta)
	case "stride_scale":
		return formatScalar(a.StrideScale)
	case "batch_count":
		return strconv.Itoa(a.BatchCount)
	case "uplo":
		return a.Uplo
	case "transA":
		return a.TransA
	case "transB":
		return a.TransB
	case "diag":
		return a.Diag
	}
	return "?"
}

func formatScalar(v float64) string {
	s := strconv.FormatFloat(v, 'g', -1, 64)
	// File-system friendly case names.
	s = strings.ReplaceAll(s, "-", "n")
	s = strings.ReplaceAll(s, "+", "")
	return s
}
