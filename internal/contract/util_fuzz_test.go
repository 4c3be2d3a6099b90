package contract

import "testing"

// FuzzParseLabelFilter fuzzes the ParseLabelFilter function with random filter strings.
func FuzzParseLabelFilter(f *testing.F) {
	seeds := []string{
		"method=GET",
		"method=GET:yes,code=500:no",
		"instance=host:8080",
		"=",
		",,,",
		"",
	}
	for _, seed := range seeds {
		f.Add(seed)
	}

	f.Fuzz(func(t *testing.T, input string) {
		values, err := ParseLabelFilter(input)
		if err == nil && values == nil {
			t.Error("expected a non-nil map on success")
		}
	})
}
