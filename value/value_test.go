// MIT License
//
// Copyright (c) 2022-2026 GoAkt Team
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.

package value

import (
	"errors"
	"math"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	gerrors "github.com/tochemey/mailport/errors"
)

func TestUndef(t *testing.T) {
	v := NewUndef()
	assert.True(t, v.IsUndef())
	assert.False(t, v.IsDefined())
	assert.False(t, v.Bool())
	assert.Equal(t, "", v.String())
	assert.Zero(t, v.Int())
	assert.Zero(t, v.Double())
	assert.Zero(t, v.Len())

	var nilValue *Value
	assert.Equal(t, Undef, nilValue.Kind())
	assert.True(t, Equal(nilValue, v))
	assert.True(t, nilValue.Index(3).IsUndef())
}

func TestBool(t *testing.T) {
	vt := NewBool(true)
	vf := NewBool(false)

	assert.Equal(t, "1", vt.String())
	assert.Equal(t, "", vf.String())
	assert.Equal(t, 1.0, vt.Double())
	assert.Equal(t, 0.0, vf.Double())
	assert.EqualValues(t, 1, vt.Int())
	assert.EqualValues(t, 0, vf.Int())

	vt.SetInt(0)
	vf.SetInt(1)
	assert.False(t, vt.Bool())
	assert.True(t, vf.Bool())

	vt.SetString("0")
	vf.SetString("")
	assert.True(t, vt.Bool())
	assert.False(t, vf.Bool())
	assert.Equal(t, Bool, vt.Kind())
}

func TestScalarCoercions(t *testing.T) {
	t.Run("With int", func(t *testing.T) {
		v := NewInt(12)
		assert.Equal(t, "12", v.String())
		assert.Equal(t, 12.0, v.Double())
		assert.EqualValues(t, 12, v.Int())

		v.SetString("FEIOFEOIW")
		assert.Equal(t, "0", v.String())
		assert.Zero(t, v.Int())

		v.SetString("15")
		assert.EqualValues(t, 15, v.Int())
		v.SetString("17.9")
		assert.EqualValues(t, 17, v.Int())
		v.SetInt(math.MaxInt64)
		assert.Equal(t, "9223372036854775807", v.String())
	})

	t.Run("With double", func(t *testing.T) {
		v := NewDouble(44.23)
		assert.Equal(t, "44.230000", v.String())
		assert.EqualValues(t, 44, v.Int())
		assert.True(t, v.Bool())

		v.SetString("342.23")
		assert.Equal(t, 342.23, v.Double())
		v.SetDouble(322.23)
		assert.Equal(t, 322.23, v.Double())
		v.SetString("nope")
		assert.Zero(t, v.Double())
	})

	t.Run("With string", func(t *testing.T) {
		v := NewString("x")
		v.SetString("bla")
		assert.Equal(t, "bla", v.String())
		v.SetDouble(1.1234)
		assert.Equal(t, "1.123400", v.String())
		v.SetBool(false)
		assert.Equal(t, "", v.String())
		assert.False(t, v.Bool())
		assert.Equal(t, String, v.Kind())
	})

	t.Run("With undef promoted by a setter", func(t *testing.T) {
		v := NewUndef()
		v.SetInt(5)
		assert.Equal(t, Int, v.Kind())
		assert.EqualValues(t, 5, v.Int())
	})

	t.Run("With containers", func(t *testing.T) {
		list := NewList(NewInt(1))
		assert.True(t, list.Bool())
		assert.Zero(t, list.Int())
		assert.Equal(t, "[1]", list.String())
		list.SetInt(4)
		assert.Equal(t, List, list.Kind())
	})
}

func TestList(t *testing.T) {
	v := NewList()
	v.Push(NewString("123"))
	v.Push(NewDouble(22.23))
	v.Push(NewBool(true))

	assert.Equal(t, String, v.Index(0).Kind())
	assert.Equal(t, "123", v.Index(0).String())
	assert.Equal(t, 22.23, v.Index(1).Double())
	assert.True(t, v.Index(2).Bool())

	clone := v.Clone()

	v.Pop()
	assert.False(t, v.Index(2).Bool())

	v.Unshift(NewString("poop"))
	assert.Equal(t, "poop", v.Index(0).String())
	assert.Equal(t, "123", v.Index(1).String())

	assert.Equal(t, 3, clone.Len())
	assert.Equal(t, "123", clone.Index(0).String())
	assert.Equal(t, 22.23, clone.Index(1).Double())
	assert.True(t, clone.Index(2).Bool())

	var seen []string
	for k, item := range v.All() {
		seen = append(seen, k+"="+item.String())
	}
	assert.Equal(t, []string{"0=poop", "1=123", "2=22.230000"}, seen)

	assert.Equal(t, "poop", v.Key("0").String())
	assert.Equal(t, 22.23, v.Key("2").Double())
	assert.True(t, v.Key("x").IsUndef())
	assert.True(t, v.Has("1"))
	assert.False(t, v.Has("7"))

	v.SetKey("0", NewString("fart"))
	assert.Equal(t, "fart", v.Index(0).String())

	assert.Equal(t, "fart", v.Shift().String())
	assert.Equal(t, 2, v.Len())

	empty := NewList()
	assert.True(t, empty.Pop().IsUndef())
	assert.True(t, empty.Shift().IsUndef())
}

func TestListAutoExtend(t *testing.T) {
	v := NewList()
	v.Set(3, NewInt(9))
	require.Equal(t, 4, v.Len())
	assert.True(t, v.Index(0).IsUndef())
	assert.True(t, v.Index(2).IsUndef())
	assert.EqualValues(t, 9, v.Index(3).Int())
	assert.True(t, v.Index(10).IsUndef())
	assert.True(t, v.Index(-1).IsUndef())

	v.Set(-1, NewInt(1))
	assert.Equal(t, 4, v.Len())

	promoted := NewUndef()
	promoted.Push(NewInt(1))
	assert.Equal(t, List, promoted.Kind())
}

func TestMap(t *testing.T) {
	v := NewMap()
	v.Set(0, NewString("BAR"))
	v.SetKey("SXCE", NewDouble(44.23))
	v.SetKey("99", NewInt(1999))
	v.SetKey("MAP", NewInt(45))

	assert.Equal(t, "BAR", v.Index(0).String())
	assert.EqualValues(t, 1999, v.Index(99).Int())
	assert.Equal(t, 44.23, v.Key("SXCE").Double())
	assert.Equal(t, "45", v.Key("MAP").String())
	assert.Equal(t, 4, v.Len())

	clone := v.Clone()
	for k, item := range v.All() {
		assert.Equal(t, item.String(), clone.Key(k).String())
	}

	clone.SetKey("SXCE", NewInt(123))
	assert.EqualValues(t, 123, clone.Key("SXCE").Int())
	assert.EqualValues(t, 44, v.Key("SXCE").Int())

	v.Delete("MAP")
	assert.False(t, v.Has("MAP"))
	assert.True(t, v.Key("MAP").IsUndef())
}

func TestScalarIteration(t *testing.T) {
	var seen []string
	for k, item := range NewInt(7).All() {
		seen = append(seen, k+"="+item.String())
	}
	assert.Equal(t, []string{"0=7"}, seen)

	count := 0
	for range NewUndef().All() {
		count++
	}
	assert.Zero(t, count)
}

func TestMapSortedIteration(t *testing.T) {
	v := NewMap()
	v.SetKey("zla", NewInt(444))
	v.SetKey("bla", NewInt(456))
	v.SetKey("10", NewInt(1))
	v.SetKey("1", NewInt(2))
	v.SetKey("11", NewInt(3))

	expected := []string{"1", "10", "11", "bla", "zla"}
	assert.Equal(t, expected, v.Keys())

	var ranged []string
	v.Range(func(key string, _ *Value) bool {
		ranged = append(ranged, key)
		return true
	})
	assert.Equal(t, expected, ranged)

	var first []string
	v.Range(func(key string, _ *Value) bool {
		first = append(first, key)
		return len(first) < 2
	})
	assert.Equal(t, []string{"1", "10"}, first)

	items := v.Items()
	require.Len(t, items, 5)
	assert.EqualValues(t, 2, items[0].Int())
	assert.EqualValues(t, 444, items[4].Int())
}

func TestShallowClone(t *testing.T) {
	nested := NewList(NewInt(1))
	original := NewList(nested, NewInt(2))
	clone := original.Clone()

	require.True(t, Equal(original, clone))

	clone.Push(NewInt(3))
	assert.Equal(t, 2, original.Len())
	assert.Equal(t, 3, clone.Len())

	nested.Push(NewInt(99))
	assert.Equal(t, 2, original.Index(0).Len())
	assert.Equal(t, 2, clone.Index(0).Len())

	scalar := NewInt(5)
	scalarClone := scalar.Clone()
	scalarClone.SetInt(6)
	assert.EqualValues(t, 5, scalar.Int())
}

func TestPointer(t *testing.T) {
	vp := NewPointer(uintptr(0x123), "TestType")

	handle, err := vp.Typed("TestType")
	require.NoError(t, err)
	assert.Equal(t, uintptr(0x123), handle)
	assert.Equal(t, "TestType", vp.TypeName())

	_, err = vp.Typed("FOOBAR")
	require.Error(t, err)
	assert.ErrorIs(t, err, gerrors.ErrTypeMismatch)
	var mismatch *gerrors.TypeMismatchError
	require.ErrorAs(t, err, &mismatch)
	assert.Equal(t, "FOOBAR", mismatch.Expected)
	assert.Equal(t, "TestType", mismatch.Actual)

	assert.Equal(t, "#<pointer:TestType:0000000000000123>", vp.String())
	assert.EqualValues(t, 0x123, vp.Int())

	clone := vp.Clone()
	cloned, err := clone.Typed("TestType")
	require.NoError(t, err)
	assert.Equal(t, handle, cloned)
	assert.Equal(t, vp.TypeName(), clone.TypeName())
	assert.EqualValues(t, 2, vp.RefCount())
	assert.True(t, Equal(vp, clone))

	typed, err := TypedAs[uintptr](vp, "TestType")
	require.NoError(t, err)
	assert.Equal(t, uintptr(0x123), typed)
	_, err = TypedAs[string](vp, "TestType")
	assert.ErrorIs(t, err, gerrors.ErrTypeMismatch)

	_, err = NewInt(1).Typed("TestType")
	assert.ErrorIs(t, err, gerrors.ErrTypeMismatch)
}

func TestPointerDestructor(t *testing.T) {
	t.Run("With release to zero", func(t *testing.T) {
		calls := 0
		vp := NewPointer(uintptr(1), "Res", WithDestructor(func(handle any) {
			assert.Equal(t, uintptr(1), handle)
			calls++
		}))
		vp.Retain()
		vp.Release()
		assert.Zero(t, calls)
		vp.Release()
		assert.Equal(t, 1, calls)
		vp.Release()
		assert.Equal(t, 1, calls)
		assert.Zero(t, vp.RefCount())
	})

	t.Run("With weak pointer", func(t *testing.T) {
		calls := 0
		vp := NewPointer(uintptr(1), "Res", AsWeak(), WithDestructor(func(any) { calls++ }))
		assert.True(t, vp.IsWeak())
		vp.Release()
		assert.Zero(t, calls)
	})

	t.Run("With forgotten release", func(t *testing.T) {
		done := make(chan struct{}, 1)
		func() {
			vp := NewPointer(uintptr(7), "Res", WithDestructor(func(any) {
				done <- struct{}{}
			}))
			_ = vp.String()
		}()

		require.Eventually(t, func() bool {
			runtime.GC()
			select {
			case <-done:
				return true
			default:
				return false
			}
		}, 5*time.Second, 10*time.Millisecond)
	})
}

func TestClosure(t *testing.T) {
	t.Run("With arguments", func(t *testing.T) {
		fn := NewClosure(CallableFunc(func(args, _ *Value) (*Value, error) {
			return NewDouble(102 + float64(args.Index(0).Int())*args.Index(1).Double()), nil
		}), nil)

		result, err := fn.Call(NewInt(3), NewDouble(5.5))
		require.NoError(t, err)
		assert.Equal(t, 102+16.5, result.Double())
		assert.Equal(t, "102.000000", fn.String())
		assert.EqualValues(t, 102, fn.Int())
	})

	t.Run("With captured state", func(t *testing.T) {
		state := NewMap()
		state.SetKey("foo", NewInt(10))
		state.SetKey("factor", NewDouble(1.5))

		fn := NewClosure(CallableFunc(func(args, state *Value) (*Value, error) {
			state.SetKey("foo", NewDouble(float64(args.Index(0).Int())*state.Key("factor").Double()))
			return state.Key("foo"), nil
		}), state)

		result, err := fn.Call(NewInt(120))
		require.NoError(t, err)
		assert.EqualValues(t, 180, state.Key("foo").Int())
		assert.EqualValues(t, 180, result.Int())

		result, err = fn.Call(NewInt(1))
		require.NoError(t, err)
		assert.EqualValues(t, 1, state.Key("foo").Int())
		assert.Equal(t, 1.5, result.Double())
		assert.Same(t, state, fn.State())
	})

	t.Run("With failing callable", func(t *testing.T) {
		cause := errors.New("script failed")
		fn := Of(func(_, _ *Value) (*Value, error) { return nil, cause })
		require.True(t, fn.IsClosure())

		result, err := fn.Call()
		require.Error(t, err)
		assert.True(t, result.IsUndef())
		assert.ErrorIs(t, err, gerrors.ErrForeignCall)
		assert.ErrorIs(t, err, cause)
		assert.Equal(t, "", fn.String())
	})

	t.Run("With panicking callable", func(t *testing.T) {
		fn := NewClosure(CallableFunc(func(_, _ *Value) (*Value, error) {
			panic("boom")
		}), nil)

		_, err := fn.Call()
		require.Error(t, err)
		assert.ErrorIs(t, err, gerrors.ErrForeignCall)
		assert.ErrorIs(t, err, gerrors.ErrPanic)
		assert.Zero(t, fn.Int())
	})

	t.Run("With a value that is not a closure", func(t *testing.T) {
		_, err := NewInt(1).Call()
		assert.ErrorIs(t, err, gerrors.ErrForeignCall)
		assert.ErrorIs(t, err, gerrors.ErrTypeMismatch)
	})

	t.Run("With closures never equal", func(t *testing.T) {
		fn := NewClosure(nil, nil)
		assert.False(t, Equal(fn, fn))
		result, err := fn.Call()
		require.NoError(t, err)
		assert.True(t, result.IsUndef())
	})
}

func TestDump(t *testing.T) {
	t.Run("With scalars", func(t *testing.T) {
		out := DumpAll(NewInt(12), NewDouble(34.56), NewBool(true), NewBool(false), NewUndef())
		assert.Equal(t, "12,34.560000,true,false,nil", out)
	})

	t.Run("With escaped string", func(t *testing.T) {
		out := Dump(NewString("foo \" bar 123!'$&%/()=\r\n§äüß"))
		assert.Equal(t, `"foo \" bar 123!'$&%/()=\r\n\xc2\xa7\xc3\xa4\xc3\xbc\xc3\x9f"`, out)
	})

	t.Run("With nested containers", func(t *testing.T) {
		m := NewMap()
		m.SetKey("test", NewInt(123))
		m.SetKey("bla", NewInt(456))
		m.SetKey("zla", NewInt(444))
		m.SetKey("!la", NewInt(123))
		m.SetKey("10", NewInt(1))
		m.SetKey("1", NewInt(2))
		m.SetKey("11", NewInt(3))
		m.SetKey("_11@&$", NewInt(4))
		m.SetKey("lst", NewList(NewInt(5), NewInt(6)))

		v := NewList(NewList(NewInt(1), NewInt(2), NewInt(3)), m)
		assert.Equal(t,
			`[[1 2 3] {!la: 123 "1" 2 "10" 1 "11" 3 _11@&$: 4 bla: 456 lst: [5 6] test: 123 zla: 444}]`,
			Dump(v))
	})

	t.Run("With other kinds", func(t *testing.T) {
		assert.Equal(t, "#<bytes:0AFF>", Dump(NewBytes([]byte{0x0a, 0xff})))
		assert.Equal(t, "#<closure>", Dump(NewClosure(nil, nil)))
		assert.Equal(t, "#<pointer:T:0000000000000010>", Dump(NewPointer(uintptr(16), "T")))
		assert.Equal(t, `{"" 1 "a b" 2}`, Dump(Of(map[string]any{"": 1, "a b": 2})))
	})
}

func TestDateTime(t *testing.T) {
	stamp, err := ParseDateTime("2016-09-08 15:15", "2006-01-02 15:04")
	require.NoError(t, err)
	assert.Equal(t, "2016-09-08 15:15:00", FormatDateTime(stamp))

	vd := NewDateTime(stamp)
	assert.Equal(t, DateTime, vd.Kind())
	assert.Equal(t, "2016-09-08 15:15:00", vd.String())

	next, err := ParseDateTime("2016-10-10 15:15", "2006-01-02 15:04")
	require.NoError(t, err)
	vd.SetTime(next)
	assert.Equal(t, "2016-10-10 15:15:00", vd.String())

	vd.SetString("2016-11-11 11:11:11")
	expected, err := ParseDateTime(vd.String(), DateTimeLayout)
	require.NoError(t, err)
	assert.True(t, expected.Equal(vd.Time()))
	assert.Equal(t, "#<datetime:2016-11-11 11:11:11>", Dump(vd))

	vi := NewInt(120)
	vi.SetTime(stamp)
	assert.Equal(t, stamp.Unix(), vi.Int())
	assert.Equal(t, Int, vi.Kind())
}

const jsonSample = `{
   "results" : [
      {
         "formatted_address" : "Hildesheim, Germany",
         "geometry" : {
            "location" : {
               "lat" : 52.154778,
               "lng" : 9.9579652
            },
            "location_type" : "APPROXIMATE"
         },
         "partial_match" : true,
         "place_id" : null,
         "types" : [ "locality", "political" ],
         "rank" : 3
      }
   ],
   "status" : "OK"
}`

func TestJSON(t *testing.T) {
	v, err := FromJSON(jsonSample)
	require.NoError(t, err)

	assert.Equal(t, "OK", v.Key("status").String())
	require.True(t, v.Key("results").IsList())
	result := v.Key("results").Index(0)
	assert.Equal(t, 52.154778, result.Key("geometry").Key("location").Key("lat").Double())
	assert.Equal(t, Bool, result.Key("partial_match").Kind())
	assert.True(t, result.Key("place_id").IsUndef())
	assert.Equal(t, Int, result.Key("rank").Kind())
	assert.Equal(t, 2, result.Key("types").Len())

	out, err := ToJSON(Of(map[string]any{"b": []any{1, "x", nil}, "a": true}))
	require.NoError(t, err)
	assert.Equal(t, `{"a":true,"b":[1,"x",null]}`, out)

	_, err = FromJSON(`{"a": `)
	assert.ErrorIs(t, err, gerrors.ErrInvalidJSON)
}

func TestHex(t *testing.T) {
	s := NewBytes([]byte("\x00\x01ABCDEF\xFF"))
	x := FromHex(s.Hex())
	assert.Equal(t, s.String(), x.String())
	assert.Equal(t, "0001414243444546FF", s.Hex())
	assert.Equal(t, "?AB\x01\xFF", FromHex("XA414201FF").String())
	assert.Equal(t, Bytes, x.Kind())
}

func TestEqual(t *testing.T) {
	a := Of(map[string]any{"x": []any{1, 2.5, "s"}, "y": false})
	b := Of(map[string]any{"y": false, "x": []any{1, 2.5, "s"}})
	assert.True(t, Equal(a, b))

	b.Key("x").Push(NewInt(3))
	assert.False(t, Equal(a, b))

	assert.False(t, Equal(NewInt(1), NewDouble(1)))
	assert.True(t, Equal(NewBytes([]byte("ab")), NewBytes([]byte("ab"))))
	assert.False(t, Equal(NewPointer(uintptr(1), "A"), NewPointer(uintptr(1), "B")))
	assert.True(t, Equal(NewPointer(uintptr(1), "A"), NewPointer(uintptr(1), "A")))
}

func TestOf(t *testing.T) {
	assert.True(t, Of(nil).IsUndef())
	assert.Equal(t, Int, Of(3).Kind())
	assert.Equal(t, Double, Of(float32(1.5)).Kind())
	assert.Equal(t, Bytes, Of([]byte("x")).Kind())
	assert.Equal(t, 3, Of([]string{"a", "b", "c"}).Len())
	assert.Equal(t, 2, Of([]int{1, 2}).Len())

	existing := NewInt(1)
	assert.Same(t, existing, Of(existing))

	opaque := Of(struct{ A int }{A: 1})
	require.True(t, opaque.IsPointer())
	assert.True(t, opaque.IsWeak())
	assert.Equal(t, "struct { A int }", opaque.TypeName())
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "map", Map.String())
	assert.Equal(t, "unknown", Kind(200).String())
}
