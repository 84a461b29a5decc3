package scopetree_test

import (
	"bytes"
	"testing"

	"github.com/delaneyj/realm/pkg/scopetree"
	"github.com/delaneyj/realm/reactive"
	"github.com/stretchr/testify/assert"
)

type session struct{}

func TestTree(t *testing.T) {
	rt := reactive.NewRuntime()
	root := rt.Root()

	view := root.CreateChild(reactive.WithContext(&session{}))
	v := reactive.NewValue(view, 1)
	reactive.NewValue(view, "title")
	reactive.NewEffect(view, func() {}).On(v)
	reactive.NewEventEffect(view, func(reactive.Message[string, int]) {}).Listen("saved")
	view.CreateChild()
	root.CreateChild()

	v.Set(2)

	expected := "" +
		"#1 objects=0 routes=0 queued=0/0/0\n" +
		"  #2 objects=4 (Effect=1 EventEffect[string,int]=1 Value[int]=1 Value[string]=1) routes=1 queued=1/0/0 context=scopetree_test.session\n" +
		"    #3 objects=0 routes=0 queued=0/0/0\n" +
		"  #4 objects=0 routes=0 queued=0/0/0\n"
	assert.Equal(t, expected, scopetree.Tree(root))

	var buf bytes.Buffer
	scopetree.WriteTree(&buf, view.Children()[0])
	assert.Equal(t, "#3 objects=0 routes=0 queued=0/0/0\n", buf.String())
}
