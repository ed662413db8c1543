//go:build !debug

package pool

type debugState struct{}

func newDebugState(string) *debugState { return nil }

func (d *debugState) ensureDestroyable(any) {}

func (d *debugState) recordDestroy(any) {}

func (d *debugState) recordWithdraw(any) {}

func (d *debugState) reset() {}
