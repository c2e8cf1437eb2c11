package pyast

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInventory_Modules(t *testing.T) {
	tests := []struct {
		name   string
		source string
		want   []string
	}{
		{
			name:   "plain and aliased imports",
			source: "import pandas as pd\nimport numpy, os.path\n",
			want:   []string{"numpy", "os", "pandas"},
		},
		{
			name:   "from imports keep the top-level package",
			source: "from kranalytics.khipu_analytics.execution_tracking import setup_notebook_tracking\nfrom sklearn import linear_model as lm\n",
			want:   []string{"kranalytics", "sklearn"},
		},
		{
			name:   "relative and future imports are ignored",
			source: "from __future__ import annotations\nfrom . import sibling\nfrom ..pkg import x\n",
			want:   []string{},
		},
		{
			name:   "nested imports are found",
			source: "def f():\n    import json\n\ntry:\n    import plotly.express as px\nexcept ImportError:\n    px = None\n",
			want:   []string{"json", "plotly"},
		},
		{
			name:   "duplicates collapse",
			source: "import pandas\nimport pandas as pd\nfrom pandas import DataFrame\n",
			want:   []string{"pandas"},
		},
		{
			name:   "magics do not hide later imports",
			source: "%matplotlib inline\nimport seaborn as sns\n",
			want:   []string{"seaborn"},
		},
		{
			name:   "no imports",
			source: "x = 1\nprint(x)\n",
			want:   []string{},
		},
	}

	inv := NewInventory()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, inv.Modules(tt.source))
		})
	}
}

func TestInventory_ConcurrentUse(t *testing.T) {
	inv := NewInventory()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.Equal(t, []string{"pandas"}, inv.Modules("import pandas as pd\n"))
		}()
	}
	wg.Wait()
}

func TestCommentMagics(t *testing.T) {
	got := commentMagics([]byte("%time x\n  !pip install y\nz = 5 % 2\n"))
	assert.Equal(t, "#time x\n  #pip install y\nz = 5 % 2\n", string(got))
}
