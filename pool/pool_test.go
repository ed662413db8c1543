package pool

import (
	"testing"

	"github.com/coachpo/freepool/errs"
)

type person struct {
	name     string
	greeting string
	disposed int
}

type personFixture struct {
	allocCalls   int
	renewCalls   int
	lastRenewArg string
	allocate     Allocator[*person, string]
	renew        Renewer[*person, string]
	dispose      Disposer[*person]
}

func newPersonFixture() *personFixture {
	f := new(personFixture)
	f.allocate = func(name string) *person {
		f.allocCalls++
		return &person{name: name, greeting: "hello " + name}
	}
	f.renew = func(p *person, name string) *person {
		f.renewCalls++
		f.lastRenewArg = name
		p.name = name
		p.greeting = "hello again " + name
		return p
	}
	f.dispose = func(p *person) {
		p.disposed++
		p.greeting = ""
	}
	return f
}

func TestNewRequiresAllocate(t *testing.T) {
	f := newPersonFixture()
	p, err := New[*person, string](nil, f.renew)
	if err == nil {
		t.Fatal("expected error for nil allocate callback")
	}
	if !errs.IsCode(err, errs.CodeTypeKind) {
		t.Fatalf("expected type_kind code, got %v", err)
	}
	if p != nil {
		t.Fatal("expected nil pool on construction failure")
	}
}

func TestNewRequiresRenew(t *testing.T) {
	f := newPersonFixture()
	_, err := New[*person, string](f.allocate, nil)
	if err == nil {
		t.Fatal("expected error for nil renew callback")
	}
	if !errs.IsCode(err, errs.CodeTypeKind) {
		t.Fatalf("expected type_kind code, got %v", err)
	}
}

func TestNewRejectsNilDispose(t *testing.T) {
	f := newPersonFixture()
	_, err := New(f.allocate, f.renew, WithDispose[*person](nil))
	if err == nil {
		t.Fatal("expected error for nil dispose callback")
	}
	if !errs.IsCode(err, errs.CodeTypeKind) {
		t.Fatalf("expected type_kind code, got %v", err)
	}
}

func TestDisposeIsOptional(t *testing.T) {
	f := newPersonFixture()
	p, err := New(f.allocate, f.renew)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	obj := p.Create("ada")
	p.Destroy(obj)
	if obj.disposed != 0 {
		t.Fatalf("expected no disposal without callback, got %d", obj.disposed)
	}
	if p.Len() != 1 {
		t.Fatalf("expected free list length 1, got %d", p.Len())
	}
}

func TestCreateAllocatesWhenEmpty(t *testing.T) {
	f := newPersonFixture()
	p, err := New(f.allocate, f.renew, WithDispose(f.dispose))
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if p.Active() != StateAllocate {
		t.Fatalf("expected allocate dispatch on a fresh pool, got %s", p.Active())
	}

	obj := p.Create("ada")
	if obj == nil || obj.name != "ada" {
		t.Fatalf("expected allocated person named ada, got %+v", obj)
	}
	if f.allocCalls != 1 || f.renewCalls != 0 {
		t.Fatalf("expected 1 allocate / 0 renew, got %d / %d", f.allocCalls, f.renewCalls)
	}
	if p.Len() != 0 {
		t.Fatalf("expected empty free list, got %d", p.Len())
	}
}

func TestDestroyThenCreateRenewsSameObject(t *testing.T) {
	f := newPersonFixture()
	p, err := New(f.allocate, f.renew, WithDispose(f.dispose))
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	obj1 := p.Create("ada")
	p.Destroy(obj1)
	if obj1.disposed != 1 {
		t.Fatalf("expected dispose at destroy time, got %d calls", obj1.disposed)
	}
	if p.Active() != StateRenew {
		t.Fatalf("expected renew dispatch after destroy, got %s", p.Active())
	}

	obj2 := p.Create("grace")
	if obj2 != obj1 {
		t.Fatal("expected renewed object to be the destroyed reference")
	}
	if f.renewCalls != 1 || f.lastRenewArg != "grace" {
		t.Fatalf("expected renew with %q, got %d calls / %q", "grace", f.renewCalls, f.lastRenewArg)
	}
	if f.allocCalls != 1 {
		t.Fatalf("expected no additional allocation, got %d", f.allocCalls)
	}
	if p.Len() != 0 || p.Active() != StateAllocate {
		t.Fatalf("expected empty pool back in allocate dispatch, got len=%d state=%s", p.Len(), p.Active())
	}
}

func TestPullReturnsLIFO(t *testing.T) {
	f := newPersonFixture()
	p, err := New(f.allocate, f.renew)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	obj1 := p.Create("first")
	obj2 := p.Create("second")
	p.Destroy(obj1)
	p.Destroy(obj2)

	got, ok := p.Pull()
	if !ok || got != obj2 {
		t.Fatalf("expected most recently destroyed object first, got %+v ok=%v", got, ok)
	}
	got, ok = p.Pull()
	if !ok || got != obj1 {
		t.Fatalf("expected second pull to return earlier object, got %+v ok=%v", got, ok)
	}
	if _, ok := p.Pull(); ok {
		t.Fatal("expected miss on empty pool")
	}
	if f.renewCalls != 0 {
		t.Fatalf("Pull must not renew, got %d renew calls", f.renewCalls)
	}
}

func TestPullFlipsDispatchOnlyAtBoundary(t *testing.T) {
	f := newPersonFixture()
	p, err := New(f.allocate, f.renew)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	obj1 := p.Create("a")
	obj2 := p.Create("b")
	p.Destroy(obj1)
	p.Destroy(obj2)

	if p.Active() != StateRenew {
		t.Fatalf("expected renew dispatch with two pooled objects, got %s", p.Active())
	}
	p.Pull()
	if p.Active() != StateRenew {
		t.Fatalf("expected renew dispatch with one pooled object left, got %s", p.Active())
	}
	p.Pull()
	if p.Active() != StateAllocate {
		t.Fatalf("expected allocate dispatch once emptied, got %s", p.Active())
	}

	obj := p.Create("c")
	if obj.name != "c" || f.allocCalls != 3 || f.renewCalls != 0 {
		t.Fatalf("expected allocation after emptying, allocs=%d renews=%d obj=%+v", f.allocCalls, f.renewCalls, obj)
	}
}

func TestDrainEmptiesAndResetsDispatch(t *testing.T) {
	f := newPersonFixture()
	p, err := New(f.allocate, f.renew, WithDispose(f.dispose))
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	obj1 := p.Create("a")
	obj2 := p.Create("b")
	p.Destroy(obj1)
	p.Destroy(obj2)

	p.Drain()
	if p.Len() != 0 {
		t.Fatalf("expected drained pool to be empty, got %d", p.Len())
	}
	if p.Active() != StateAllocate {
		t.Fatalf("expected allocate dispatch after drain, got %s", p.Active())
	}
	if obj1.disposed != 1 || obj2.disposed != 1 {
		t.Fatalf("drain must not re-dispose, got %d / %d", obj1.disposed, obj2.disposed)
	}

	obj3 := p.Create("c")
	if f.allocCalls != 3 || f.renewCalls != 0 {
		t.Fatalf("expected fresh allocation after drain, allocs=%d renews=%d", f.allocCalls, f.renewCalls)
	}
	if obj3 == obj1 || obj3 == obj2 {
		t.Fatal("expected drained objects to be discarded, not reused")
	}
}

func TestClearEmptiesAndResetsDispatch(t *testing.T) {
	f := newPersonFixture()
	p, err := New(f.allocate, f.renew)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	obj1 := p.Create("a")
	obj2 := p.Create("b")
	p.Destroy(obj1)
	p.Destroy(obj2)

	p.Clear()
	if p.Len() != 0 {
		t.Fatalf("expected cleared pool to be empty, got %d", p.Len())
	}
	if p.Active() != StateAllocate {
		t.Fatalf("expected allocate dispatch after clear, got %s", p.Active())
	}
	p.Create("c")
	if f.renewCalls != 0 {
		t.Fatalf("expected allocation after clear, got %d renews", f.renewCalls)
	}
}

func TestReinitKeepsFreeListContents(t *testing.T) {
	f := newPersonFixture()
	p, err := New(f.allocate, f.renew, WithDispose(f.dispose))
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	p.Destroy(p.Create("a"))

	g := newPersonFixture()
	if err := p.Reinit(g.allocate, g.renew); err != nil {
		t.Fatalf("Reinit failed: %v", err)
	}
	if p.Len() != 1 {
		t.Fatalf("Reinit must not clear the free list, got %d", p.Len())
	}
	if p.Active() != StateAllocate {
		t.Fatalf("expected allocate dispatch after reinit, got %s", p.Active())
	}

	p.Create("b")
	if g.allocCalls != 1 || g.renewCalls != 0 {
		t.Fatalf("expected reassigned allocate callback, got allocs=%d renews=%d", g.allocCalls, g.renewCalls)
	}
	if f.allocCalls != 1 {
		t.Fatalf("old allocate callback must not run after reinit, got %d", f.allocCalls)
	}
}

func TestReinitValidatesCallbacks(t *testing.T) {
	f := newPersonFixture()
	p, err := New(f.allocate, f.renew)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if err := p.Reinit(nil, f.renew); !errs.IsCode(err, errs.CodeTypeKind) {
		t.Fatalf("expected type_kind error, got %v", err)
	}
	// Failed reinit must leave the previous callbacks in service.
	obj := p.Create("a")
	if obj == nil || f.allocCalls != 1 {
		t.Fatalf("expected original allocate to remain wired, allocs=%d", f.allocCalls)
	}
}

func TestFreeListAccounting(t *testing.T) {
	f := newPersonFixture()
	p, err := New(f.allocate, f.renew)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	objs := make([]*person, 0, 5)
	for i := 0; i < 5; i++ {
		objs = append(objs, p.Create("x"))
	}
	for _, obj := range objs {
		p.Destroy(obj)
	}
	p.Create("y")
	p.Pull()
	p.Create("z")

	// 5 destroys minus 3 withdrawals (2 renewing creates + 1 pull).
	if p.Len() != 2 {
		t.Fatalf("expected 2 pooled objects, got %d", p.Len())
	}
}

func TestStatsSnapshot(t *testing.T) {
	f := newPersonFixture()
	p, err := New(f.allocate, f.renew)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	obj := p.Create("a")
	p.Destroy(obj)
	p.Create("b")
	p.Destroy(obj)
	p.Drain()

	stats := p.Stats()
	want := Stats{Allocations: 1, Renewals: 1, Destroys: 2, Drains: 1, FreeListLen: 0}
	if stats != want {
		t.Fatalf("unexpected stats: got %+v want %+v", stats, want)
	}
}

type gunner struct {
	name string
	ammo int
}

type gunnerSpec struct {
	name string
	ammo int
}

func TestStructArgumentCallbacks(t *testing.T) {
	p, err := New(
		func(spec gunnerSpec) *gunner { return &gunner{name: spec.name, ammo: spec.ammo} },
		func(g *gunner, spec gunnerSpec) *gunner {
			g.name = spec.name
			g.ammo = spec.ammo
			return g
		},
		WithDispose(func(g *gunner) { g.ammo = 0 }),
	)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	g1 := p.Create(gunnerSpec{name: "turret", ammo: 64})
	if g1.ammo != 64 {
		t.Fatalf("expected loaded gunner, got %+v", g1)
	}
	p.Destroy(g1)
	if g1.ammo != 0 {
		t.Fatalf("expected dispose to unload internals, got %d", g1.ammo)
	}
	g2 := p.Create(gunnerSpec{name: "sniper", ammo: 8})
	if g2 != g1 || g2.name != "sniper" || g2.ammo != 8 {
		t.Fatalf("expected renewed gunner reference, got %+v", g2)
	}
}
