package lockboxtest

import "github.com/iov-one/lockbox"

// Handler is a mock implementation of the lockbox.Handler interface. It
// returns configured results and counts every call.
type Handler struct {
	checkCall   int
	CheckResult lockbox.CheckResult
	CheckErr    error

	deliverCall   int
	DeliverResult lockbox.DeliverResult
	DeliverErr    error

	// Write if set is stored in the database before returning.
	Write *lockbox.Model
}

var _ lockbox.Handler = (*Handler)(nil)

func (h *Handler) Check(ctx lockbox.Context, db lockbox.KVStore, tx lockbox.Tx) (*lockbox.CheckResult, error) {
	h.checkCall++
	if err := h.write(db); err != nil {
		return nil, err
	}
	if h.CheckErr != nil {
		return nil, h.CheckErr
	}
	res := h.CheckResult
	return &res, nil
}

func (h *Handler) Deliver(ctx lockbox.Context, db lockbox.KVStore, tx lockbox.Tx) (*lockbox.DeliverResult, error) {
	h.deliverCall++
	if err := h.write(db); err != nil {
		return nil, err
	}
	if h.DeliverErr != nil {
		return nil, h.DeliverErr
	}
	res := h.DeliverResult
	return &res, nil
}

func (h *Handler) write(db lockbox.KVStore) error {
	if h.Write == nil {
		return nil
	}
	return db.Set(h.Write.Key, h.Write.Value)
}

func (h *Handler) CheckCallCount() int {
	return h.checkCall
}

func (h *Handler) DeliverCallCount() int {
	return h.deliverCall
}

func (h *Handler) CallCount() int {
	return h.checkCall + h.deliverCall
}
