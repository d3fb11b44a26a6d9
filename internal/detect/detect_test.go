package detect_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/uimorph/uimorph/internal/detect"
	"github.com/uimorph/uimorph/pkg/ir"
)

func TestFrameworkByFileName(t *testing.T) {
	t.Parallel()

	fw, err := detect.Framework("counter.dart", nil)
	require.NoError(t, err)
	assert.Equal(t, ir.FrameworkWidgetTree, fw)

	fw, err = detect.Framework("Counter.jsx", nil)
	require.NoError(t, err)
	assert.Equal(t, ir.FrameworkComponentModel, fw)
}

func TestFrameworkByContent(t *testing.T) {
	t.Parallel()

	widget := []byte("class Counter extends StatefulWidget {}\n")

	fw, err := detect.Framework("input", widget)
	require.NoError(t, err)
	assert.Equal(t, ir.FrameworkWidgetTree, fw)

	component := []byte("export default function Counter() {\n  const [n] = useState(0);\n}\n")

	fw, err = detect.Framework("input", component)
	require.NoError(t, err)
	assert.Equal(t, ir.FrameworkComponentModel, fw)
}

func TestFrameworkRouteSources(t *testing.T) {
	t.Parallel()

	fw, err := detect.Framework("input", []byte("final routes = [\n  GoRoute(path: '/'),\n];\n"))
	require.NoError(t, err)
	assert.Equal(t, ir.FrameworkWidgetTree, fw)

	fw, err = detect.Framework("input", []byte("export const routes = [\n  { path: '/' },\n];\n"))
	require.NoError(t, err)
	assert.Equal(t, ir.FrameworkComponentModel, fw)
}

func TestFrameworkUndetected(t *testing.T) {
	t.Parallel()

	_, err := detect.Framework("input", []byte("hello world\n"))
	require.ErrorIs(t, err, detect.ErrUndetected)
}
