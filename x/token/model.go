package token

import (
	"regexp"

	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/lockbox"
	"github.com/iov-one/lockbox/errors"
	"github.com/iov-one/lockbox/orm"
)

const (
	tokenBucketName     = "tkn"
	balanceBucketName   = "tknbal"
	allowanceBucketName = "tknallow"

	maxNameLength = 64
)

var isSymbol = regexp.MustCompile(`^[A-Z][A-Z0-9]{2,7}$`).MatchString

// Address returns the address identifying the token with given symbol.
func Address(symbol string) lockbox.Address {
	return lockbox.NewCondition("token", "sym", []byte(symbol)).Address()
}

// Token describes a fungible token.
type Token struct {
	Symbol string          `protobuf:"bytes,1,opt,name=symbol,proto3" json:"symbol"`
	Name   string          `protobuf:"bytes,2,opt,name=name,proto3" json:"name"`
	Supply uint64          `protobuf:"varint,3,opt,name=supply,proto3" json:"supply"`
	Minter lockbox.Address `protobuf:"bytes,4,opt,name=minter,proto3" json:"minter"`
}

func (m *Token) Reset()         { *m = Token{} }
func (m *Token) String() string { return proto.CompactTextString(m) }
func (*Token) ProtoMessage()    {}

var _ orm.CloneableData = (*Token)(nil)

// Validate ensures the token is well formed.
func (t *Token) Validate() error {
	if !isSymbol(t.Symbol) {
		return errors.Wrapf(errors.ErrModel, "invalid symbol %q", t.Symbol)
	}
	if len(t.Name) > maxNameLength {
		return errors.Wrap(errors.ErrModel, "name too long")
	}
	if err := t.Minter.Validate(); err != nil {
		return errors.Wrap(err, "minter")
	}
	return nil
}

// Copy returns a copy of the token.
func (t *Token) Copy() orm.CloneableData {
	return &Token{
		Symbol: t.Symbol,
		Name:   t.Name,
		Supply: t.Supply,
		Minter: append(lockbox.Address(nil), t.Minter...),
	}
}

// Balance is the amount of a token owned by a holder.
type Balance struct {
	Token   lockbox.Address `protobuf:"bytes,1,opt,name=token,proto3" json:"token"`
	Holder  lockbox.Address `protobuf:"bytes,2,opt,name=holder,proto3" json:"holder"`
	Balance uint64          `protobuf:"varint,3,opt,name=balance,proto3" json:"balance"`
}

func (m *Balance) Reset()         { *m = Balance{} }
func (m *Balance) String() string { return proto.CompactTextString(m) }
func (*Balance) ProtoMessage()    {}

var _ orm.CloneableData = (*Balance)(nil)

// Validate requires both addresses.
func (b *Balance) Validate() error {
	if err := b.Token.Validate(); err != nil {
		return errors.Wrap(err, "token")
	}
	if err := b.Holder.Validate(); err != nil {
		return errors.Wrap(err, "holder")
	}
	return nil
}

// Copy returns a copy of the balance.
func (b *Balance) Copy() orm.CloneableData {
	return &Balance{
		Token:   append(lockbox.Address(nil), b.Token...),
		Holder:  append(lockbox.Address(nil), b.Holder...),
		Balance: b.Balance,
	}
}

// Allowance is the amount of a token the spender may transfer from the
// owner account.
type Allowance struct {
	Token   lockbox.Address `protobuf:"bytes,1,opt,name=token,proto3" json:"token"`
	Owner   lockbox.Address `protobuf:"bytes,2,opt,name=owner,proto3" json:"owner"`
	Spender lockbox.Address `protobuf:"bytes,3,opt,name=spender,proto3" json:"spender"`
	Amount  uint64          `protobuf:"varint,4,opt,name=amount,proto3" json:"amount"`
}

func (m *Allowance) Reset()         { *m = Allowance{} }
func (m *Allowance) String() string { return proto.CompactTextString(m) }
func (*Allowance) ProtoMessage()    {}

var _ orm.CloneableData = (*Allowance)(nil)

// Validate requires all addresses.
func (a *Allowance) Validate() error {
	if err := a.Token.Validate(); err != nil {
		return errors.Wrap(err, "token")
	}
	if err := a.Owner.Validate(); err != nil {
		return errors.Wrap(err, "owner")
	}
	if err := a.Spender.Validate(); err != nil {
		return errors.Wrap(err, "spender")
	}
	return nil
}

// Copy returns a copy of the allowance.
func (a *Allowance) Copy() orm.CloneableData {
	return &Allowance{
		Token:   append(lockbox.Address(nil), a.Token...),
		Owner:   append(lockbox.Address(nil), a.Owner...),
		Spender: append(lockbox.Address(nil), a.Spender...),
		Amount:  a.Amount,
	}
}

// balanceKey is the token address followed by the holder address, so all
// balances of a token share a prefix.
func balanceKey(token, holder lockbox.Address) []byte {
	return concat(token, holder)
}

// allowanceKey is token, owner and spender addresses concatenated.
func allowanceKey(token, owner, spender lockbox.Address) []byte {
	return concat(token, owner, spender)
}

func concat(parts ...[]byte) []byte {
	var n int
	for _, p := range parts {
		n += len(p)
	}
	res := make([]byte, 0, n)
	for _, p := range parts {
		res = append(res, p...)
	}
	return res
}

// TokenBucket stores tokens under their address.
type TokenBucket struct {
	orm.Bucket
}

// NewTokenBucket returns a bucket for tokens.
func NewTokenBucket() TokenBucket {
	return TokenBucket{
		Bucket: orm.NewBucket(tokenBucketName, orm.NewSimpleObj(nil, new(Token))),
	}
}

// GetToken returns the token stored under given address or nil.
func (b TokenBucket) GetToken(db lockbox.ReadOnlyKVStore, token lockbox.Address) (*Token, error) {
	obj, err := b.Get(db, token)
	if err != nil || obj == nil {
		return nil, err
	}
	t, ok := obj.Value().(*Token)
	if !ok {
		return nil, errors.WithType(errors.ErrModel, obj.Value())
	}
	return t, nil
}

// BalanceBucket stores holder balances.
type BalanceBucket struct {
	orm.Bucket
}

// NewBalanceBucket returns a bucket for balances. Balances are indexed by
// holder.
func NewBalanceBucket() BalanceBucket {
	b := orm.NewBucket(balanceBucketName, orm.NewSimpleObj(nil, new(Balance))).
		WithIndex("holder", balanceHolderIndex, false)
	return BalanceBucket{Bucket: b}
}

func balanceHolderIndex(obj orm.Object) ([]byte, error) {
	if obj == nil {
		return nil, errors.Wrap(errors.ErrHuman, "cannot take index of nil")
	}
	b, ok := obj.Value().(*Balance)
	if !ok {
		return nil, errors.WithType(errors.ErrModel, obj.Value())
	}
	return b.Holder, nil
}

// GetBalance returns the balance record, creating an empty one if missing.
func (b BalanceBucket) GetBalance(db lockbox.ReadOnlyKVStore, token, holder lockbox.Address) (*Balance, error) {
	obj, err := b.Get(db, balanceKey(token, holder))
	if err != nil {
		return nil, err
	}
	if obj == nil {
		return &Balance{Token: token, Holder: holder}, nil
	}
	bal, ok := obj.Value().(*Balance)
	if !ok {
		return nil, errors.WithType(errors.ErrModel, obj.Value())
	}
	return bal, nil
}

// SaveBalance persists the balance.
func (b BalanceBucket) SaveBalance(db lockbox.KVStore, bal *Balance) error {
	return b.Save(db, orm.NewSimpleObj(balanceKey(bal.Token, bal.Holder), bal))
}

// AllowanceBucket stores allowances.
type AllowanceBucket struct {
	orm.Bucket
}

// NewAllowanceBucket returns a bucket for allowances.
func NewAllowanceBucket() AllowanceBucket {
	return AllowanceBucket{
		Bucket: orm.NewBucket(allowanceBucketName, orm.NewSimpleObj(nil, new(Allowance))),
	}
}

// GetAllowance returns the allowance record, creating an empty one if
// missing.
func (b AllowanceBucket) GetAllowance(db lockbox.ReadOnlyKVStore, token, owner, spender lockbox.Address) (*Allowance, error) {
	obj, err := b.Get(db, allowanceKey(token, owner, spender))
	if err != nil {
		return nil, err
	}
	if obj == nil {
		return &Allowance{Token: token, Owner: owner, Spender: spender}, nil
	}
	a, ok := obj.Value().(*Allowance)
	if !ok {
		return nil, errors.WithType(errors.ErrModel, obj.Value())
	}
	return a, nil
}

// SaveAllowance persists the allowance. A zero allowance is removed.
func (b AllowanceBucket) SaveAllowance(db lockbox.KVStore, a *Allowance) error {
	key := allowanceKey(a.Token, a.Owner, a.Spender)
	if a.Amount == 0 {
		return b.Delete(db, key)
	}
	return b.Save(db, orm.NewSimpleObj(key, a))
}
