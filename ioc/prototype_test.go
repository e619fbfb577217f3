package ioc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type requestTemplate struct {
	Method  string
	Headers map[string]string
	Tags    []string
}

func TestPrototype_DeepCopies(t *testing.T) {
	template := &requestTemplate{
		Method:  "GET",
		Headers: map[string]string{"Accept": "json"},
		Tags:    []string{"a"},
	}
	c := New()
	require.NoError(t, RegisterPrototype(c, template, AsSingleton()))

	r1 := MustResolve[*requestTemplate](c)
	r2 := MustResolve[*requestTemplate](c)
	assert.NotSame(t, r1, r2, "prototypes are always transient")
	assert.NotSame(t, template, r1)
	assert.Equal(t, template, r1)

	r1.Headers["Accept"] = "xml"
	r1.Tags[0] = "changed"
	assert.Equal(t, "json", template.Headers["Accept"])
	assert.Equal(t, "json", r2.Headers["Accept"])
	assert.Equal(t, "a", template.Tags[0])
}

func TestPrototype_ValueTemplate(t *testing.T) {
	c := New()
	require.NoError(t, RegisterPrototype(c, requestTemplate{Method: "POST", Tags: []string{"x"}}))

	r := MustResolve[requestTemplate](c)
	assert.Equal(t, "POST", r.Method)
	assert.Equal(t, []string{"x"}, r.Tags)
}

func TestPrototype_Rejects(t *testing.T) {
	c := New()
	assert.Error(t, RegisterPrototype(c, 3))
	assert.Error(t, RegisterPrototype[*requestTemplate](c, nil))
	assert.Error(t, RegisterPrototype(c, new(int)))
}
