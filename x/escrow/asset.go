package escrow

import (
	"encoding/json"

	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/lockbox"
	"github.com/iov-one/lockbox/errors"
)

// AssetKind tells which ledger holds the value of an asset.
type AssetKind int32

const (
	AssetNone AssetKind = iota
	AssetNative
	AssetToken
)

const nativeText = "native"

// Asset identifies the value held by a deposit. Only a token asset carries
// an address.
type Asset struct {
	Kind  AssetKind       `protobuf:"varint,1,opt,name=kind,proto3" json:"kind,omitempty"`
	Token lockbox.Address `protobuf:"bytes,2,opt,name=token,proto3" json:"token,omitempty"`
}

func (m *Asset) Reset()         { *m = Asset{} }
func (m *Asset) String() string { return proto.CompactTextString(m) }
func (*Asset) ProtoMessage()    {}

// NativeAsset returns the native asset.
func NativeAsset() Asset {
	return Asset{Kind: AssetNative}
}

// TokenAsset returns the asset of the token with given address.
func TokenAsset(token lockbox.Address) Asset {
	return Asset{Kind: AssetToken, Token: token}
}

// Validate returns ErrInvalidInput unless the asset is either native or a
// token with a valid address.
func (a Asset) Validate() error {
	switch a.Kind {
	case AssetNative:
		if len(a.Token) != 0 {
			return errors.Wrap(errors.ErrInvalidInput, "native asset with token address")
		}
		return nil
	case AssetToken:
		if err := a.Token.Validate(); err != nil {
			return errors.Wrap(err, "token asset")
		}
		return nil
	case AssetNone:
		return errors.Wrap(errors.ErrInvalidInput, "no asset")
	default:
		return errors.Wrapf(errors.ErrInvalidInput, "unknown asset kind %d", a.Kind)
	}
}

// IsNone returns true for the zero asset.
func (a Asset) IsNone() bool {
	return a.Kind == AssetNone && len(a.Token) == 0
}

// Text returns the human readable form: "native", the token address or an
// empty string for no asset.
func (a Asset) Text() string {
	switch a.Kind {
	case AssetNative:
		return nativeText
	case AssetToken:
		return a.Token.String()
	default:
		return ""
	}
}

// MarshalJSON encodes the asset in its human readable form.
func (a Asset) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.Text())
}

// UnmarshalJSON accepts "native", any address text form understood by
// lockbox.ParseAddress or an empty string for no asset.
func (a *Asset) UnmarshalJSON(raw []byte) error {
	var enc string
	if err := json.Unmarshal(raw, &enc); err != nil {
		return errors.Wrap(errors.ErrInvalidInput, "cannot decode json")
	}
	asset, err := ParseAsset(enc)
	if err != nil {
		return err
	}
	*a = asset
	return nil
}

// ParseAsset decodes the human readable form of an asset.
func ParseAsset(enc string) (Asset, error) {
	switch enc {
	case "":
		return Asset{}, nil
	case nativeText:
		return NativeAsset(), nil
	}
	addr, err := lockbox.ParseAddress(enc)
	if err != nil {
		return Asset{}, errors.Wrap(err, "token address")
	}
	return TokenAsset(addr), nil
}
