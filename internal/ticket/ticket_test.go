package ticket

import (
	"bytes"
	"errors"
	"testing"
)

func testCodec() *Codec {
	return New(bytes.Repeat([]byte{1}, 64), bytes.Repeat([]byte{2}, 32))
}

func TestIssueAndDecode(t *testing.T) {
	c := testCodec()
	tk, err := c.Issue("ABCD1234")
	if err != nil {
		t.Fatal(err)
	}
	code, err := c.Code(tk)
	if err != nil {
		t.Fatal(err)
	}
	if code != "ABCD1234" {
		t.Fatalf("code = %q", code)
	}
}

func TestRejectsTamperedTicket(t *testing.T) {
	c := testCodec()
	tk, _ := c.Issue("ABCD1234")

	for _, bad := range []string{"", "garbage", tk[:len(tk)-4] + "AAAA"} {
		if _, err := c.Code(bad); !errors.Is(err, ErrInvalid) {
			t.Errorf("Code(%q) = %v, want ErrInvalid", bad, err)
		}
	}
}

func TestRejectsOtherKeys(t *testing.T) {
	tk, _ := testCodec().Issue("ABCD1234")
	other := New(bytes.Repeat([]byte{3}, 64), bytes.Repeat([]byte{4}, 32))
	if _, err := other.Code(tk); !errors.Is(err, ErrInvalid) {
		t.Fatalf("got %v", err)
	}
}
