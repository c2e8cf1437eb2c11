package rewrite

import (
	"fmt"
	"strings"

	"github.com/krlabs/kra/internal/core/domain"
)

const banner = "# ═══════════════════════════════════════════════════════════════════════════\n"

var importsSource = []string{
	banner,
	"# SETUP & IMPORTS\n",
	banner,
	"\n",
	"# Standard libraries\n",
	"import pandas as pd\n",
	"import numpy as np\n",
	"import warnings\n",
	"warnings.filterwarnings('ignore')\n",
	"\n",
	"# Visualization libraries\n",
	"import matplotlib.pyplot as plt\n",
	"import seaborn as sns\n",
	"import plotly.express as px\n",
	"import plotly.graph_objects as go\n",
	"\n",
	"# Statistical and ML libraries\n",
	"from sklearn.model_selection import train_test_split\n",
	"from sklearn.linear_model import LinearRegression\n",
	"from sklearn.ensemble import RandomForestRegressor\n",
	"from sklearn.metrics import r2_score, mean_absolute_error\n",
	"from scipy import stats\n",
	"import statsmodels.api as sm\n",
	"\n",
	"# KRAnalytics utilities\n",
	"from kranalytics import data_utils\n",
	"from kranalytics.khipu_analytics.execution_tracking import setup_notebook_tracking\n",
	"\n",
	"print(\"✅ All libraries imported successfully\")\n",
	"print(\"📦 KRAnalytics utilities loaded\")\n",
}

// ImportsCell returns the canonical imports cell.
func ImportsCell() domain.Cell {
	return domain.NewCellFromLines(domain.CellCode, append([]string(nil), importsSource...))
}

// TrackingCell returns the canonical execution tracking cell for a
// notebook's domain and tier.
func TrackingCell(meta domain.NotebookMetadata) domain.Cell {
	return domain.NewCellFromLines(domain.CellCode, []string{
		banner,
		"# EXECUTION TRACKING\n",
		banner,
		"\n",
		fmt.Sprintf("notebook_name = %q\n", meta.Domain),
		fmt.Sprintf("analytics_tier = %q\n", meta.Tier),
		"\n",
		"# Initialize tracking\n",
		"tracker = setup_notebook_tracking(notebook_name, analytics_tier)\n",
		"tracker.start_section(\"setup\")\n",
		"\n",
		"print(f\"🎯 Notebook: {notebook_name}\")\n",
		"print(f\"📊 Analytics Tier: {analytics_tier}\")\n",
		"print(\"⏱️  Execution tracking enabled\")\n",
	})
}

// DataLoadCell returns the canonical data-loading cell for a notebook's
// data source. Its text avoids every drop and fetch trigger so a second
// standardization keeps it.
func DataLoadCell(meta domain.NotebookMetadata) domain.Cell {
	source := meta.DataSource
	if strings.TrimSpace(source) == "" {
		source = domain.DefaultDataSource
	}
	return domain.NewCellFromLines(domain.CellCode, []string{
		banner,
		"# DATA LOADING\n",
		banner,
		"\n",
		"tracker.start_section(\"data_loading\")\n",
		"\n",
		"# Load data using kranalytics data utilities\n",
		"# Automatic fallback: remote source → sample data → synthetic\n",
		fmt.Sprintf("data = data_utils.load_data(%q, fallback=True)\n", source),
		"\n",
		"if data is not None:\n",
		"    print(f\"✅ Data loaded successfully: {len(data)} records\")\n",
		"    print(f\"📋 Columns: {list(data.columns)}\")\n",
		"    display(data.head())\n",
		"else:\n",
		"    print(\"⚠️  Data loading failed - check credentials and configuration\")\n",
		"\n",
		"tracker.end_section(\"data_loading\")\n",
	})
}
