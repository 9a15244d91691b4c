package errors

import (
	"fmt"
	"io"
	"strings"
	"testing"
)

type codedError struct{}

func (codedError) ABCICode() uint32 { return 999 }
func (codedError) Error() string    { return "coded" }

func TestABCIInfo(t *testing.T) {
	cases := map[string]struct {
		err      error
		debug    bool
		wantCode uint32
		wantLog  string
	}{
		"nil":               {wantCode: SuccessABCICode},
		"root":              {err: ErrNotFound, wantCode: 3, wantLog: "not found"},
		"wrapped root":      {err: Wrap(ErrNotFound, "deposit 2"), wantCode: 3, wantLog: "deposit 2: not found"},
		"custom code":       {err: codedError{}, wantCode: 999, wantLog: "coded"},
		"wrapped custom":    {err: Wrap(codedError{}, "asset"), wantCode: 999, wantLog: "asset: coded"},
		"std error hidden":  {err: io.EOF, wantCode: internalABCICode, wantLog: internalABCILog},
		"std error debug":   {err: io.EOF, debug: true, wantCode: internalABCICode, wantLog: "EOF"},
		"wrapped std debug": {err: Wrap(io.EOF, "read"), debug: true, wantCode: internalABCICode, wantLog: "read: EOF"},
		"panic code":        {err: Wrap(ErrPanic, "nil map"), wantCode: ErrPanic.ABCICode(), wantLog: "nil map: panic"},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			code, log := ABCIInfo(tc.err, tc.debug)
			if code != tc.wantCode {
				t.Errorf("code %d, want %d", code, tc.wantCode)
			}
			if log != tc.wantLog {
				t.Errorf("log %q, want %q", log, tc.wantLog)
			}
		})
	}
}

func TestABCIInfoDebugStack(t *testing.T) {
	_, log := ABCIInfo(ErrAmount.New("negative"), true)
	if !strings.HasPrefix(log, "negative: invalid amount") {
		t.Fatalf("log %q", log)
	}
	if !strings.Contains(log, "abci_test.go") {
		t.Fatalf("no stack trace in %q", log)
	}
}

func TestABCIError(t *testing.T) {
	if err := ABCIError(SuccessABCICode, ""); err != nil {
		t.Fatalf("success gave %v", err)
	}

	err := ABCIError(ErrNotFound.ABCICode(), "deposit 9")
	if !ErrNotFound.Is(err) {
		t.Fatalf("got %+v", err)
	}

	for _, code := range []uint32{internalABCICode, 4242} {
		err := ABCIError(code, "boom")
		if got, _ := ABCIInfo(err, false); got != internalABCICode {
			t.Errorf("code %d came back as %d", code, got)
		}
	}
}

func TestRedact(t *testing.T) {
	cases := map[string]struct {
		err     error
		keep    bool
		wantMsg string
	}{
		"coded error kept":  {err: ErrUnauthorized.New("not receiver"), keep: true},
		"custom code kept":  {err: codedError{}, keep: true},
		"panic hidden":      {err: Wrap(ErrPanic, "index out of range"), wantMsg: internalABCILog},
		"std error hidden":  {err: fmt.Errorf("disk %d failed", 2), wantMsg: internalABCILog},
		"wrapped std error": {err: Wrap(io.ErrUnexpectedEOF, "read"), wantMsg: internalABCILog},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			if got := Redact(tc.err, true); got != tc.err {
				t.Fatalf("debug mode changed %v", tc.err)
			}
			got := Redact(tc.err, false)
			if tc.keep {
				if got != tc.err {
					t.Fatalf("got %v", got)
				}
				return
			}
			if got.Error() != tc.wantMsg {
				t.Fatalf("message %q", got.Error())
			}
		})
	}
}
