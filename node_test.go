package apreal

import (
	"context"
	"math/big"
	"testing"
	"time"
)

func TestCacheMonotonePrecision(t *testing.T) {
	var c cache
	c.put(big.NewInt(100), -10)
	if _, ok := c.get(-5); !ok {
		t.Fatal("expected a coarser precision to be servable from a finer cached entry")
	}
	c.put(big.NewInt(7), -2) // coarser than -10: must not replace
	v, _ := c.get(-10)
	if v.Int64() != 100 {
		t.Errorf("coarser put replaced finer cache entry: got %d", v.Int64())
	}
	c.put(big.NewInt(12345), -20) // finer: must replace
	v, ok := c.get(-20)
	if !ok || v.Int64() != 12345 {
		t.Errorf("finer put did not replace: got %v, ok=%v", v, ok)
	}
}

func TestCacheLearnsMsdOnce(t *testing.T) {
	var c cache
	c.put(big.NewInt(8), 0) // msd = 3
	m, ok := c.cachedMsd()
	if !ok || m != 3 {
		t.Fatalf("cachedMsd = (%d,%v), want (3,true)", m, ok)
	}
	c.put(big.NewInt(1), -100) // a much smaller value; first-learned MSD must stick
	m2, _ := c.cachedMsd()
	if m2 != 3 {
		t.Errorf("cachedMsd changed after first discovery: got %d, want 3", m2)
	}
}

func TestCheckCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	if err := checkCancelled(ctx); err != nil {
		t.Fatalf("unexpected error on live context: %v", err)
	}
	cancel()
	err := checkCancelled(ctx)
	if err == nil || !IsKind(err, KindCancelled) {
		t.Fatalf("expected KindCancelled error after cancel, got %v", err)
	}
}

func TestCheckCancelledOnTimeout(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Millisecond)
	defer cancel()
	time.Sleep(5 * time.Millisecond)
	err := checkCancelled(ctx)
	if err == nil || !IsKind(err, KindCancelled) {
		t.Fatalf("expected KindCancelled error after timeout, got %v", err)
	}
}

func TestSameNodeIdentity(t *testing.T) {
	a := NewIntegerInt64(5)
	b := NewIntegerInt64(5)
	if sameNode(a, b) {
		t.Error("two distinct Integer nodes with equal value should not be sameNode")
	}
	if !sameNode(a, a) {
		t.Error("a node should be sameNode as itself")
	}
}

func TestEvalPairSequentialByDefault(t *testing.T) {
	a := NewIntegerInt64(3)
	b := NewIntegerInt64(4)
	av, bv, err := evalPair(context.Background(), a, b, 0)
	if err != nil {
		t.Fatalf("evalPair error: %v", err)
	}
	if av.Value.Int64() != 3 || bv.Value.Int64() != 4 {
		t.Errorf("evalPair values = (%d,%d), want (3,4)", av.Value.Int64(), bv.Value.Int64())
	}
}

func TestEvalPairConcurrent(t *testing.T) {
	ctx := WithMultithreading(context.Background(), true)
	a := NewIntegerInt64(10)
	b := NewIntegerInt64(20)
	av, bv, err := evalPair(ctx, a, b, 0)
	if err != nil {
		t.Fatalf("evalPair error: %v", err)
	}
	if av.Value.Int64() != 10 || bv.Value.Int64() != 20 {
		t.Errorf("evalPair (multithreaded) values = (%d,%d), want (10,20)", av.Value.Int64(), bv.Value.Int64())
	}
}

func TestGenericMsdSearchFindsKnownValue(t *testing.T) {
	n := NewIntegerInt64(1024) // 2^10, msd = 10
	m, err := genericMsdSearch(context.Background(), n, -20)
	if err != nil {
		t.Fatalf("genericMsdSearch error: %v", err)
	}
	if m != 10 {
		t.Errorf("genericMsdSearch(1024) = %d, want 10", m)
	}
}

func TestGenericMsdSearchUnknownForZero(t *testing.T) {
	m, err := genericMsdSearch(context.Background(), NewZero(), -50)
	if err != nil {
		t.Fatalf("genericMsdSearch error: %v", err)
	}
	if m != Unknown {
		t.Errorf("genericMsdSearch(0) = %d, want Unknown", m)
	}
}
