package id

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// New returns a random record ID.
func New() string {
	return uuid.NewString()
}

// Valid reports whether s is a well-formed record ID.
func Valid(s string) bool {
	_, err := uuid.Parse(s)
	return err == nil
}

// FormatCode returns a category code like "3.1.02". Segments after the first
// two levels are zero-padded to two digits.
func FormatCode(segments []int) string {
	parts := make([]string, len(segments))
	for i, s := range segments {
		if i >= 2 {
			parts[i] = fmt.Sprintf("%02d", s)
		} else {
			parts[i] = strconv.Itoa(s)
		}
	}
	return strings.Join(parts, ".")
}

// ParseCode parses "3.1.02" into its numeric segments.
func ParseCode(code string) ([]int, error) {
	if code == "" {
		return nil, fmt.Errorf("empty category code")
	}
	parts := strings.Split(code, ".")
	segments := make([]int, len(parts))
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil || n < 0 || strings.HasPrefix(p, "-") || strings.HasPrefix(p, "+") {
			return nil, fmt.Errorf("invalid segment %q in category code %q", p, code)
		}
		segments[i] = n
	}
	return segments, nil
}

// ParentCode strips the last segment.
// "3.1.02" -> "3.1", "3" -> ""
func ParentCode(code string) string {
	i := strings.LastIndex(code, ".")
	if i < 0 {
		return ""
	}
	return code[:i]
}

// Depth returns the number of segments in a code (0 for "").
func Depth(code string) int {
	if code == "" {
		return 0
	}
	return strings.Count(code, ".") + 1
}

// InstallmentLabel returns "3/12".
func InstallmentLabel(n, total int) string {
	return fmt.Sprintf("%d/%d", n, total)
}

// ParseInstallmentLabel parses "3/12" into 3 and 12.
func ParseInstallmentLabel(label string) (n, total int, err error) {
	a, b, ok := strings.Cut(strings.TrimSpace(label), "/")
	if !ok {
		return 0, 0, fmt.Errorf("invalid installment label %q", label)
	}
	n, err = strconv.Atoi(a)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid installment number in %q: %w", label, err)
	}
	total, err = strconv.Atoi(b)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid installment total in %q: %w", label, err)
	}
	if n < 1 || total < 1 || n > total {
		return 0, 0, fmt.Errorf("installment %q out of range", label)
	}
	return n, total, nil
}
