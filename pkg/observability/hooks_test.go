package observability

import (
	"context"
	"testing"
	"time"
)

type testSamplerHooks struct{ NoopSamplerHooks }

type testStoreHooks struct{ NoopStoreHooks }

func TestNoopHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()

	s := NoopSamplerHooks{}
	s.OnRunStart(ctx, 3, 1000)
	s.OnIteration(ctx, 1, -12.5)
	s.OnRunComplete(ctx, 420, time.Second, nil)

	st := NoopStoreHooks{}
	st.OnTally(ctx, "memory", "mu")
	st.OnPlayback(ctx, "memory", "mu", 1000)
	st.OnStoreError(ctx, "redis", nil)
}

func TestGlobalHooksRegistry(t *testing.T) {
	Reset()

	if _, ok := Sampler().(NoopSamplerHooks); !ok {
		t.Error("Sampler() should return NoopSamplerHooks by default")
	}
	if _, ok := Store().(NoopStoreHooks); !ok {
		t.Error("Store() should return NoopStoreHooks by default")
	}

	customSampler := &testSamplerHooks{}
	SetSamplerHooks(customSampler)
	if Sampler() != SamplerHooks(customSampler) {
		t.Error("SetSamplerHooks should set custom hooks")
	}

	customStore := &testStoreHooks{}
	SetStoreHooks(customStore)
	if Store() != StoreHooks(customStore) {
		t.Error("SetStoreHooks should set custom hooks")
	}

	Reset()
	if _, ok := Sampler().(NoopSamplerHooks); !ok {
		t.Error("Reset() should restore NoopSamplerHooks")
	}
}

func TestSetNilHooksIsIgnored(t *testing.T) {
	Reset()

	custom := &testSamplerHooks{}
	SetSamplerHooks(custom)
	SetSamplerHooks(nil)
	if Sampler() != SamplerHooks(custom) {
		t.Error("SetSamplerHooks(nil) should be ignored")
	}

	Reset()
}
