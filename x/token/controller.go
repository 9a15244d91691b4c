package token

import (
	"github.com/iov-one/lockbox"
	"github.com/iov-one/lockbox/errors"
	"github.com/iov-one/lockbox/orm"
)

// Controller is the token functionality other extensions can use.
type Controller interface {
	Token(db lockbox.ReadOnlyKVStore, token lockbox.Address) (*Token, error)
	BalanceOf(db lockbox.ReadOnlyKVStore, token, holder lockbox.Address) (uint64, error)
	Allowance(db lockbox.ReadOnlyKVStore, token, owner, spender lockbox.Address) (uint64, error)
	Transfer(db lockbox.KVStore, token, src, dest lockbox.Address, amount uint64) error
	TransferFrom(db lockbox.KVStore, token, spender, owner, dest lockbox.Address, amount uint64) error
	Approve(db lockbox.KVStore, token, owner, spender lockbox.Address, amount uint64) error
}

// BaseController implements Controller over the token buckets.
type BaseController struct {
	tokens     TokenBucket
	balances   BalanceBucket
	allowances AllowanceBucket
}

var _ Controller = BaseController{}

// NewController returns a controller using the default buckets.
func NewController() BaseController {
	return BaseController{
		tokens:     NewTokenBucket(),
		balances:   NewBalanceBucket(),
		allowances: NewAllowanceBucket(),
	}
}

// Create registers a new token and mints the whole supply to the minter.
// It returns the address of the token.
func (c BaseController) Create(db lockbox.KVStore, minter lockbox.Address, symbol, name string, supply uint64) (lockbox.Address, error) {
	addr := Address(symbol)
	switch existing, err := c.tokens.GetToken(db, addr); {
	case err != nil:
		return nil, errors.Wrap(err, "cannot load token")
	case existing != nil:
		return nil, errors.Wrapf(errors.ErrDuplicate, "token %s", symbol)
	}

	t := &Token{Symbol: symbol, Name: name, Minter: minter}
	if err := c.tokens.Save(db, newTokenObj(addr, t)); err != nil {
		return nil, errors.Wrap(err, "cannot save token")
	}
	if err := c.Mint(db, addr, minter, supply); err != nil {
		return nil, err
	}
	return addr, nil
}

// Mint creates new units of a token for the holder and increases the
// supply.
func (c BaseController) Mint(db lockbox.KVStore, token, holder lockbox.Address, amount uint64) error {
	t, err := c.Token(db, token)
	if err != nil {
		return err
	}
	if t.Supply+amount < t.Supply {
		return errors.Wrap(errors.ErrOverflow, "supply")
	}
	t.Supply += amount
	if err := c.tokens.Save(db, newTokenObj(token, t)); err != nil {
		return errors.Wrap(err, "cannot save token")
	}

	bal, err := c.balances.GetBalance(db, token, holder)
	if err != nil {
		return errors.Wrap(err, "cannot load balance")
	}
	// Balances never exceed the supply, so this cannot overflow.
	bal.Balance += amount
	return c.balances.SaveBalance(db, bal)
}

// Token returns the token or ErrNotFound.
func (c BaseController) Token(db lockbox.ReadOnlyKVStore, token lockbox.Address) (*Token, error) {
	t, err := c.tokens.GetToken(db, token)
	if err != nil {
		return nil, errors.Wrap(err, "cannot load token")
	}
	if t == nil {
		return nil, errors.Wrapf(errors.ErrNotFound, "token %s", token)
	}
	return t, nil
}

// BalanceOf returns the holder balance of an existing token.
func (c BaseController) BalanceOf(db lockbox.ReadOnlyKVStore, token, holder lockbox.Address) (uint64, error) {
	if _, err := c.Token(db, token); err != nil {
		return 0, err
	}
	bal, err := c.balances.GetBalance(db, token, holder)
	if err != nil {
		return 0, errors.Wrap(err, "cannot load balance")
	}
	return bal.Balance, nil
}

// Allowance returns the amount the spender may still pull from the owner.
func (c BaseController) Allowance(db lockbox.ReadOnlyKVStore, token, owner, spender lockbox.Address) (uint64, error) {
	if _, err := c.Token(db, token); err != nil {
		return 0, err
	}
	a, err := c.allowances.GetAllowance(db, token, owner, spender)
	if err != nil {
		return 0, errors.Wrap(err, "cannot load allowance")
	}
	return a.Amount, nil
}

// Transfer moves amount of the token from src to dest.
func (c BaseController) Transfer(db lockbox.KVStore, token, src, dest lockbox.Address, amount uint64) error {
	if amount == 0 {
		return errors.Wrap(errors.ErrInvalidAmount, "zero amount")
	}
	if err := dest.Validate(); err != nil {
		return errors.Wrap(err, "dest")
	}
	if _, err := c.Token(db, token); err != nil {
		return err
	}

	from, err := c.balances.GetBalance(db, token, src)
	if err != nil {
		return errors.Wrap(err, "cannot load source balance")
	}
	if from.Balance < amount {
		return errors.Wrapf(errors.ErrInsufficientAmount, "balance %d, requested %d", from.Balance, amount)
	}
	from.Balance -= amount
	if err := c.balances.SaveBalance(db, from); err != nil {
		return errors.Wrap(err, "cannot save source balance")
	}

	to, err := c.balances.GetBalance(db, token, dest)
	if err != nil {
		return errors.Wrap(err, "cannot load destination balance")
	}
	to.Balance += amount
	if err := c.balances.SaveBalance(db, to); err != nil {
		return errors.Wrap(err, "cannot save destination balance")
	}
	return nil
}

// TransferFrom moves amount from the owner to dest on behalf of the spender,
// consuming the allowance the owner granted to the spender. The allowance is
// only reduced once the transfer succeeded.
func (c BaseController) TransferFrom(db lockbox.KVStore, token, spender, owner, dest lockbox.Address, amount uint64) error {
	if amount == 0 {
		return errors.Wrap(errors.ErrInvalidAmount, "zero amount")
	}
	if _, err := c.Token(db, token); err != nil {
		return err
	}
	a, err := c.allowances.GetAllowance(db, token, owner, spender)
	if err != nil {
		return errors.Wrap(err, "cannot load allowance")
	}
	if a.Amount < amount {
		return errors.Wrapf(ErrInsufficientAllowance, "allowance %d, requested %d", a.Amount, amount)
	}
	if err := c.Transfer(db, token, owner, dest, amount); err != nil {
		return err
	}
	a.Amount -= amount
	if err := c.allowances.SaveAllowance(db, a); err != nil {
		return errors.Wrap(err, "cannot save allowance")
	}
	return nil
}

// Approve sets the amount the spender may transfer from the owner account.
// It replaces any previous allowance. Zero revokes the allowance.
func (c BaseController) Approve(db lockbox.KVStore, token, owner, spender lockbox.Address, amount uint64) error {
	if err := spender.Validate(); err != nil {
		return errors.Wrap(err, "spender")
	}
	if _, err := c.Token(db, token); err != nil {
		return err
	}
	a := &Allowance{Token: token, Owner: owner, Spender: spender, Amount: amount}
	return c.allowances.SaveAllowance(db, a)
}

func newTokenObj(addr lockbox.Address, t *Token) orm.Object {
	return orm.NewSimpleObj(addr, t)
}
