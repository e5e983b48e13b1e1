package report

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestDocumentError(t *testing.T) {
	cause := fmt.Errorf("underlying problem")

	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "with path and cause",
			err:  NewDocumentError("save", "out.docx", cause),
			want: "document error during save of 'out.docx': underlying problem",
		},
		{
			name: "with path only",
			err:  NewDocumentError("open", "out.docx", nil),
			want: "document error during open of 'out.docx'",
		},
		{
			name: "with cause only",
			err:  NewDocumentError("marshal", "", cause),
			want: "document error during marshal: underlying problem",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}

	err := NewDocumentError("save", "out.docx", cause)
	if !errors.Is(err, cause) {
		t.Errorf("errors.Is does not unwrap to the cause")
	}
}

func TestTableError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "with position",
			err:  NewTableError("set cell text", 2, 3, "column out of range"),
			want: "table error in set cell text at row 2, column 3: column out of range",
		},
		{
			name: "row only",
			err:  NewTableError("insert row", 5, -1, "position out of range"),
			want: "table error in insert row at row 5: position out of range",
		},
		{
			name: "no position",
			err:  NewTableError("set column widths", -1, -1, "no widths given"),
			want: "table error in set column widths: no widths given",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestValidationError(t *testing.T) {
	single := NewValidationError("level", "must be between 1 and 6")
	want := "validation error: level - must be between 1 and 6"
	if single.Error() != want {
		t.Errorf("Error() = %q, want %q", single.Error(), want)
	}

	multi := &ValidationError{Issues: []ValidationIssue{
		{Field: "records[0]", Message: "has 2 values, want 3"},
		{Field: "records[4]", Message: "has 1 values, want 3"},
	}}
	msg := multi.Error()
	if !strings.Contains(msg, "2 validation issues") {
		t.Errorf("Error() = %q, want issue count", msg)
	}
	if !strings.Contains(msg, "records[4]") {
		t.Errorf("Error() = %q, want all issues listed", msg)
	}
}

func TestMultiError(t *testing.T) {
	m := NewMultiError()
	if m.Err() != nil {
		t.Errorf("empty MultiError Err() = %v, want nil", m.Err())
	}

	m.Add(nil)
	if m.Len() != 0 {
		t.Errorf("Len() = %d after adding nil, want 0", m.Len())
	}

	first := fmt.Errorf("first")
	m.Add(first)
	if m.Err() != first {
		t.Errorf("single-error MultiError Err() = %v, want the error itself", m.Err())
	}

	m.Add(fmt.Errorf("second"))
	msg := m.Err().Error()
	if !strings.Contains(msg, "2 errors occurred") {
		t.Errorf("Error() = %q, want error count", msg)
	}
}

func TestWithContext(t *testing.T) {
	if WithContext(nil, "render", nil) != nil {
		t.Errorf("WithContext(nil) should return nil")
	}

	cause := fmt.Errorf("bad value")
	err := WithContext(cause, "render table", map[string]interface{}{"row": 3})
	msg := err.Error()
	if !strings.Contains(msg, "render table") || !strings.Contains(msg, "row=3") {
		t.Errorf("Error() = %q, want operation and context", msg)
	}
	if !errors.Is(err, cause) {
		t.Errorf("errors.Is does not unwrap to the cause")
	}
}

func TestErrorTypeChecking(t *testing.T) {
	docErr := NewDocumentError("open", "x.docx", nil)
	tblErr := NewTableError("merge cells", 0, 0, "bad range")
	valErr := NewValidationError("columns", "empty")

	if !IsDocumentError(docErr) || IsDocumentError(tblErr) {
		t.Errorf("IsDocumentError misclassifies")
	}
	if !IsTableError(tblErr) || IsTableError(valErr) {
		t.Errorf("IsTableError misclassifies")
	}
	if !IsValidationError(valErr) || IsValidationError(docErr) {
		t.Errorf("IsValidationError misclassifies")
	}
}
