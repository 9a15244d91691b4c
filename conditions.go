package lockbox

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/iov-one/lockbox/crypto/bech32"
	"github.com/iov-one/lockbox/errors"
)

var (
	// AddressLength is the size of every address. It must not change once
	// a store holds addresses.
	AddressLength = 20

	// AddressPrefix is the human readable part of bech32 addresses.
	AddressPrefix = "lbx"

	// (?s) lets the data section hold any byte, newlines included
	conditionFormat = regexp.MustCompile(`(?s)^([a-zA-Z0-9_\-]{3,8})/([a-zA-Z0-9_\-]{3,8})/(.+)$`)
)

// Condition names who may authorize an action, as
// "<extension>/<type>/<data>". The escrow custody and every signing key
// are conditions.
type Condition []byte

// NewCondition joins the three sections of a condition.
func NewCondition(ext, typ string, data []byte) Condition {
	c := make(Condition, 0, len(ext)+len(typ)+len(data)+2)
	c = append(c, ext...)
	c = append(c, '/')
	c = append(c, typ...)
	c = append(c, '/')
	return append(c, data...)
}

// Parse splits the condition into its sections.
func (c Condition) Parse() (ext string, typ string, data []byte, err error) {
	m := conditionFormat.FindSubmatch(c)
	if m == nil {
		return "", "", nil, errors.Wrapf(errors.ErrInput, "condition %X", []byte(c))
	}
	return string(m[1]), string(m[2]), m[3], nil
}

// Validate fails unless the condition has the three sections.
func (c Condition) Validate() error {
	_, _, _, err := c.Parse()
	return err
}

// Address is the digest of the condition.
func (c Condition) Address() Address {
	return NewAddress(c)
}

// Equals compares the raw bytes.
func (c Condition) Equals(o Condition) bool {
	return bytes.Equal(c, o)
}

// String keeps extension and type readable and hex encodes the data.
func (c Condition) String() string {
	ext, typ, data, err := c.Parse()
	if err != nil {
		return fmt.Sprintf("Invalid Condition: %X", []byte(c))
	}
	return fmt.Sprintf("%s/%s/%X", ext, typ, data)
}

// MarshalJSON writes the String form, an empty string for nil.
func (c Condition) MarshalJSON() ([]byte, error) {
	if c == nil {
		return json.Marshal("")
	}
	return json.Marshal(c.String())
}

// UnmarshalJSON reads the String form.
func (c *Condition) UnmarshalJSON(raw []byte) error {
	var text string
	if err := json.Unmarshal(raw, &text); err != nil {
		return errors.Wrap(errors.ErrInput, "condition must be a json string")
	}
	cond, err := parseCondition(text)
	if err != nil {
		return err
	}
	*c = cond
	return nil
}

func parseCondition(text string) (Condition, error) {
	if text == "" {
		return nil, nil
	}
	parts := strings.Split(text, "/")
	if len(parts) != 3 {
		return nil, errors.Wrapf(errors.ErrInput, "condition %q needs three sections", text)
	}
	data, err := hex.DecodeString(parts[2])
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInput, "condition data: %s", err)
	}
	return NewCondition(parts[0], parts[1], data), nil
}

// Address identifies an account, a token or the escrow custody. It is
// AddressLength bytes long.
type Address []byte

// NewAddress returns the truncated sha256 of data, nil for nil data.
func NewAddress(data []byte) Address {
	if data == nil {
		return nil
	}
	sum := sha256.Sum256(data)
	return Address(sum[:AddressLength])
}

// Equals compares the raw bytes.
func (a Address) Equals(o Address) bool {
	return bytes.Equal(a, o)
}

// Validate fails unless the address has AddressLength bytes.
func (a Address) Validate() error {
	if len(a) != AddressLength {
		return errors.Wrapf(errors.ErrInput, "address of %d bytes", len(a))
	}
	return nil
}

// String is the upper case hex form, "(nil)" when empty.
func (a Address) String() string {
	if len(a) == 0 {
		return "(nil)"
	}
	return strings.ToUpper(hex.EncodeToString(a))
}

// Bech32 encodes the address with AddressPrefix.
func (a Address) Bech32() (string, error) {
	return bech32.Encode(AddressPrefix, a)
}

// MarshalJSON writes upper case hex instead of base64.
func (a Address) MarshalJSON() ([]byte, error) {
	return json.Marshal(strings.ToUpper(hex.EncodeToString(a)))
}

// UnmarshalJSON accepts every form ParseAddress does.
func (a *Address) UnmarshalJSON(raw []byte) error {
	var text string
	if err := json.Unmarshal(raw, &text); err != nil {
		return errors.Wrap(errors.ErrInput, "address must be a json string")
	}
	addr, err := ParseAddress(text)
	if err != nil {
		return err
	}
	*a = addr
	return nil
}

// addressDecoders map the prefix of an encoded address to its decoder.
var addressDecoders = map[string]func(string) (Address, error){
	"hex": func(text string) (Address, error) {
		raw, err := hex.DecodeString(text)
		if err != nil {
			return nil, errors.Wrapf(errors.ErrInput, "hex address: %s", err)
		}
		return Address(raw), nil
	},
	"bech32": func(text string) (Address, error) {
		_, raw, err := bech32.Decode(text)
		if err != nil {
			return nil, err
		}
		return Address(raw), nil
	},
	"cond": func(text string) (Address, error) {
		cond, err := parseCondition(text)
		if err != nil {
			return nil, err
		}
		if err := cond.Validate(); err != nil {
			return nil, err
		}
		return cond.Address(), nil
	},
}

// ParseAddress decodes "<format>:<value>" where format is hex, bech32 or
// cond. Without a prefix the value is hex. An empty value is the nil
// address.
func ParseAddress(text string) (Address, error) {
	format, value := "hex", text
	if i := strings.Index(text, ":"); i >= 0 {
		format, value = text[:i], text[i+1:]
	}
	decode, ok := addressDecoders[format]
	if !ok {
		return nil, errors.Wrapf(errors.ErrType, "unknown address format %q", format)
	}
	if value == "" {
		return nil, nil
	}
	addr, err := decode(value)
	if err != nil {
		return nil, err
	}
	if err := addr.Validate(); err != nil {
		return nil, err
	}
	return addr, nil
}
