package hds

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/hdsbridge/pkg/types"
)

func TestNewObjectCallerOrderBounds(t *testing.T) {
	s := newTestSession(t)
	root := newRoot(t, s)

	obj, err := root.NewObject("IMG", types.TypeReal, []int{-1, 10}, []int{2, 14})
	require.NoError(t, err)

	dims, err := obj.Dim()
	require.NoError(t, err)
	assert.Equal(t, types.Shape{4, 5}, dims)

	lower, upper, err := obj.Bound()
	require.NoError(t, err)
	assert.Equal(t, []int{-1, 10}, lower)
	assert.Equal(t, []int{2, 14}, upper)

	data, err := obj.Find("DATA")
	require.NoError(t, err)
	shape, err := data.Shape()
	require.NoError(t, err)
	assert.Equal(t, types.Shape{4, 5}, shape, "DATA shape matches Dim")

	typ, err := obj.Type()
	require.NoError(t, err)
	assert.Equal(t, types.ObjectType, typ)
}

func TestNewObjectValidation(t *testing.T) {
	s := newTestSession(t)
	root := newRoot(t, s)

	_, err := root.NewObject("A", types.TypeReal, []int{1}, []int{1, 2})
	assert.ErrorIs(t, err, types.ErrInvalidArgument)
	_, err = root.NewObject("A", types.TypeReal, nil, nil)
	assert.ErrorIs(t, err, types.ErrInvalidArgument)
	_, err = root.NewObject("A", types.TypeReal, []int{5}, []int{4})
	assert.ErrorIs(t, err, types.ErrInvalidArgument)
	_, err = root.NewObject("A", types.TypeChar(4), []int{1}, []int{4})
	assert.ErrorIs(t, err, types.ErrUnsupportedType)

	_, err = root.NewObject("A", types.TypeReal, []int{1}, []int{4})
	require.NoError(t, err)
	_, err = root.NewObject("A", types.TypeReal, []int{1}, []int{4})
	assert.ErrorIs(t, err, types.ErrStore)
}

func TestNewObjectInPlace(t *testing.T) {
	s := newTestSession(t)
	root := newRoot(t, s)
	require.NoError(t, root.NewStructure("SPEC", "SPECTRUM", nil))
	spec, err := root.Find("SPEC")
	require.NoError(t, err)

	obj, err := spec.NewObject("", types.TypeDouble, []int{1}, []int{8})
	require.NoError(t, err)
	dims, err := obj.Dim()
	require.NoError(t, err)
	assert.Equal(t, types.Shape{8}, dims)

	dims, err = spec.Dim()
	require.NoError(t, err)
	assert.Equal(t, types.Shape{8}, dims)
}

func TestDimOnPlainStructureFails(t *testing.T) {
	s := newTestSession(t)
	root := newRoot(t, s)
	_, err := root.Dim()
	assert.Error(t, err)
}

func TestCompState(t *testing.T) {
	s := newTestSession(t)
	root := newRoot(t, s)
	obj, err := root.NewObject("RAW", types.TypeInteger, []int{1}, []int{3})
	require.NoError(t, err)

	ok, err := obj.CompState("DATA")
	require.NoError(t, err)
	assert.False(t, ok, "DATA exists but holds no values")

	for _, comp := range []string{"QUALITY", "VARIANCE", "ERROR", "AXIS", "TITLE", "LABEL", "UNITS", "EXTENSION"} {
		ok, err := obj.CompState(comp)
		require.NoError(t, err, comp)
		assert.False(t, ok, comp)
	}

	_, err = obj.CompState("HISTORY")
	assert.ErrorIs(t, err, types.ErrInvalidArgument)

	img := newImage(t, root, []int{1}, []int{3})
	ok, err = img.CompState("data")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestCharacterComponents(t *testing.T) {
	s := newTestSession(t)
	root := newRoot(t, s)
	img := newImage(t, root, []int{1}, []int{3})

	v, ok, err := img.Cget("TITLE")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, v)

	require.NoError(t, img.Cput("title", "M31 field"))
	v, ok, err = img.Cget("TITLE")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "M31 field", v)

	require.NoError(t, img.Cput("TITLE", "A much longer replacement title"))
	v, _, err = img.Cget("TITLE")
	require.NoError(t, err)
	assert.Equal(t, "A much longer replacement title", v)

	require.NoError(t, img.Cput("UNITS", ""))
	v, ok, err = img.Cget("UNITS")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Empty(t, v)

	ok, err = img.CompState("TITLE")
	require.NoError(t, err)
	assert.True(t, ok)

	assert.ErrorIs(t, img.Cput("DATA", "x"), types.ErrInvalidArgument)
	_, _, err = img.Cget("HISTORY")
	assert.ErrorIs(t, err, types.ErrInvalidArgument)
}

func TestBadValue(t *testing.T) {
	s := newTestSession(t)
	root := newRoot(t, s)

	img := newImage(t, root, []int{1}, []int{2})
	v, err := img.BadValue()
	require.NoError(t, err)
	assert.Equal(t, float64(types.BadReal), v)

	q, err := root.NewObject("Q", types.TypeUByte, []int{1}, []int{2})
	require.NoError(t, err)
	v, err = q.BadValue()
	require.NoError(t, err)
	assert.Equal(t, float64(types.BadUByte), v)
}

func TestAxisCharacterComponents(t *testing.T) {
	s := newTestSession(t)
	root := newRoot(t, s)
	img := newImage(t, root, []int{1, 1}, []int{2, 3})

	_, ok, err := img.AxisCget("LABEL", 0)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, img.AxisCput("LABEL", 0, "Declination"))
	require.NoError(t, img.AxisCput("units", 1, "deg"))

	v, ok, err := img.AxisCget("LABEL", 0)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "Declination", v)
	v, ok, err = img.AxisCget("UNITS", 1)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "deg", v)
	_, ok, err = img.AxisCget("LABEL", 1)
	require.NoError(t, err)
	assert.False(t, ok)

	// Caller axis 0 is the slowest varying, which is the last store axis.
	ax, err := img.Find("AXIS")
	require.NoError(t, err)
	last, err := ax.Cell(1)
	require.NoError(t, err)
	there, err := last.There("LABEL")
	require.NoError(t, err)
	assert.True(t, there)

	ok, err = img.AxisState("LABEL", WholeObject)
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = img.AxisState("LABEL", 1)
	require.NoError(t, err)
	assert.False(t, ok)

	assert.ErrorIs(t, img.AxisCput("LABEL", WholeObject, "x"), types.ErrInvalidArgument)
	assert.ErrorIs(t, img.AxisCput("LABEL", 2, "x"), types.ErrRange)
	assert.ErrorIs(t, img.AxisCput("WIDTH", 0, "x"), types.ErrInvalidArgument)
}

func TestAxisReadDefaults(t *testing.T) {
	s := newTestSession(t)
	root := newRoot(t, s)
	img := newImage(t, root, []int{-2, 5}, []int{0, 8})

	centre, err := img.AxisRead("CENTRE", 0)
	require.NoError(t, err)
	assert.Equal(t, types.TypeDouble, centre.Type)
	assert.Equal(t, []float64{-2.5, -1.5, -0.5}, centre.Float64s())

	centre, err = img.AxisRead("DATA", 1)
	require.NoError(t, err)
	assert.Equal(t, []float64{4.5, 5.5, 6.5, 7.5}, centre.Float64s())

	width, err := img.AxisRead("WIDTH", 1)
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 1, 1, 1}, width.Float64s())

	variance, err := img.AxisRead("VARIANCE", 0)
	require.NoError(t, err)
	assert.Nil(t, variance)

	_, err = img.AxisRead("LABEL", 0)
	assert.ErrorIs(t, err, types.ErrInvalidArgument)
	_, err = img.AxisRead("CENTRE", WholeObject)
	assert.ErrorIs(t, err, types.ErrInvalidArgument)

	ok, err := img.AxisState("CENTRE", WholeObject)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestAxisReadStoredCentres(t *testing.T) {
	s := newTestSession(t)
	root := newRoot(t, s)
	img := newImage(t, root, []int{1}, []int{3})
	require.NoError(t, img.AxisCput("LABEL", 0, "Wavelength"))

	ax, err := img.Find("AXIS")
	require.NoError(t, err)
	cell, err := ax.Cell(0)
	require.NoError(t, err)
	require.NoError(t, cell.New("DATA_ARRAY", types.TypeReal, types.Shape{3}))
	arr, err := cell.Find("DATA_ARRAY")
	require.NoError(t, err)
	buf, err := types.BufferOf(types.TypeReal, types.Shape{3}, []float32{400, 500, 600})
	require.NoError(t, err)
	require.NoError(t, arr.Put(types.TypeReal, types.Shape{3}, buf))

	require.NoError(t, cell.New("NORM", types.TypeLogical, nil))
	norm, err := cell.Find("NORM")
	require.NoError(t, err)
	flag, err := types.BufferOf(types.TypeLogical, nil, []int32{1})
	require.NoError(t, err)
	require.NoError(t, norm.Put(types.TypeLogical, nil, flag))

	got, err := img.AxisRead("CENTRE", 0)
	require.NoError(t, err)
	assert.Equal(t, types.TypeReal, got.Type)
	assert.Equal(t, []float32{400, 500, 600}, got.Float32s())

	ok, err := img.AxisState("CENTRE", 0)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = img.AxisNorm(0)
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = img.AxisNorm(WholeObject)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestAxisNormUnset(t *testing.T) {
	s := newTestSession(t)
	root := newRoot(t, s)
	img := newImage(t, root, []int{1, 1}, []int{2, 2})

	ok, err := img.AxisNorm(WholeObject)
	require.NoError(t, err)
	assert.False(t, ok)
	_, err = img.AxisNorm(5)
	assert.ErrorIs(t, err, types.ErrRange)
}

func TestAxisForm(t *testing.T) {
	s := newTestSession(t)
	root := newRoot(t, s)
	img := newImage(t, root, []int{1, 1}, []int{3, 2})

	form, err := img.AxisForm("CENTRE", 0)
	require.NoError(t, err)
	assert.Equal(t, AxisFormSimple, form, "no AXIS structure yet")

	require.NoError(t, img.AxisCput("UNITS", 1, "nm"))
	form, err = img.AxisForm("width", 1)
	require.NoError(t, err)
	assert.Equal(t, AxisFormSimple, form, "defaulted WIDTH")

	ax, err := img.Find("AXIS")
	require.NoError(t, err)
	// Caller axis 0 is store axis 2, the second AXIS cell.
	cell, err := ax.Cell(1)
	require.NoError(t, err)
	require.NoError(t, cell.New("DATA_ARRAY", types.TypeDouble, types.Shape{3}))
	form, err = img.AxisForm("DATA", 0)
	require.NoError(t, err)
	assert.Equal(t, AxisFormSimple, form, "primitive centres")

	require.NoError(t, cell.NewStructure("WIDTH", "ARRAY", nil))
	width, err := cell.Find("WIDTH")
	require.NoError(t, err)
	require.NoError(t, width.New("VARIANT", types.TypeChar(6), nil))
	variant, err := width.Find("VARIANT")
	require.NoError(t, err)
	require.NoError(t, variant.PutString("spaced"))
	form, err = img.AxisForm("WIDTH", 0)
	require.NoError(t, err)
	assert.Equal(t, "SPACED", form)

	_, err = img.AxisForm("VARIANCE", 0)
	assert.ErrorIs(t, err, types.ErrInvalidArgument)
	_, err = img.AxisForm("CENTRE", WholeObject)
	assert.ErrorIs(t, err, types.ErrInvalidArgument)
	_, err = img.AxisForm("CENTRE", 2)
	assert.ErrorIs(t, err, types.ErrRange)
}
