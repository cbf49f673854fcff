package report

import (
	"fmt"
	"html/template"
)

var tmplFuncs = template.FuncMap{
	"pct": func(v float64) string { return fmt.Sprintf("%.2f%%", v) },
	"num": func(v float64) string { return fmt.Sprintf("%.2f", v) },
	"yesno": func(v bool) string {
		if v {
			return "Yes"
		}
		return "No"
	},
}

var pageTmpl = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html lang="en" data-theme="{{.Theme}}">
<head>
<meta charset="UTF-8">
<title>tablens: {{.FileName}}</title>
<style>
:root { --bg: #ffffff; --fg: #24292f; --muted: #57606a; --card: #f6f8fa; --border: #d0d7de; --good: #1a7f37; --medium: #9a6700; --bad: #cf222e; }
html[data-theme="dark"] { --bg: #1e1e1e; --fg: #e0e0e0; --muted: #9e9e9e; --card: #2a2a2a; --border: #444444; --good: #3fb950; --medium: #d29922; --bad: #f85149; }
body { background: var(--bg); color: var(--fg); font-family: -apple-system, "Segoe UI", Helvetica, Arial, sans-serif; margin: 0; padding: 24px; }
h1 { font-size: 1.4em; } h2 { font-size: 1.1em; border-bottom: 1px solid var(--border); padding-bottom: 6px; }
section { margin-bottom: 32px; }
table { border-collapse: collapse; font-size: 0.85em; margin-top: 8px; }
th, td { border: 1px solid var(--border); padding: 4px 8px; text-align: left; }
th { background: var(--card); }
.kpi-grid { display: flex; flex-wrap: wrap; gap: 12px; }
.kpi { background: var(--card); border: 1px solid var(--border); border-radius: 6px; padding: 12px 16px; min-width: 140px; }
.kpi-title { color: var(--muted); font-size: 0.8em; }
.kpi-value { font-size: 1.3em; font-weight: 600; }
.file-info { color: var(--muted); font-size: 0.9em; }
.quality-good { color: var(--good); font-weight: 600; }
.quality-medium { color: var(--medium); font-weight: 600; }
.quality-bad { color: var(--bad); font-weight: 600; }
.corr-table td { text-align: center; min-width: 48px; }
</style>
</head>
<body>
<h1>tablens <span class="file-info">exploratory data analysis</span></h1>
{{.Overview}}
{{.Summary}}
{{.Correlations}}
{{.Outliers}}
</body>
</html>
`))

var overviewTmpl = template.Must(template.New("overview").Funcs(tmplFuncs).Parse(`<section id="overview">
<h2>Overview</h2>
<div class="file-info">
<p><strong>File:</strong> {{.FileName}}</p>
<p><strong>Encoding:</strong> {{.Encoding}}{{if .Delimiter}} &middot; <strong>Delimiter:</strong> <code>{{.Delimiter}}</code>{{end}}</p>
<p><strong>Loaded lines:</strong> {{.Loaded}} &middot; <strong>Omitted lines:</strong> {{.Omitted}}</p>
</div>
<div class="kpi-grid">
<div class="kpi"><div class="kpi-title">Rows</div><div class="kpi-value">{{.KPIs.Rows}}</div></div>
<div class="kpi"><div class="kpi-title">Columns</div><div class="kpi-value">{{.KPIs.Columns}}</div></div>
<div class="kpi"><div class="kpi-title">Missing ratio</div><div class="kpi-value">{{pct .KPIs.MissingPct}}</div></div>
<div class="kpi"><div class="kpi-title">Duplicates</div><div class="kpi-value">{{pct .KPIs.DuplicatePct}}</div></div>
<div class="kpi"><div class="kpi-title">High cardinality</div><div class="kpi-value">{{.KPIs.HighCardinality}}</div></div>
<div class="kpi"><div class="kpi-title">Memory footprint</div><div class="kpi-value">{{.Memory}}</div></div>
<div class="kpi"><div class="kpi-title">Quality</div><div class="kpi-value quality-{{.KPIs.Quality}}">{{.KPIs.Quality}}</div></div>
</div>
<h3>First rows</h3>
<table><thead><tr>{{range .Columns}}<th>{{.}}</th>{{end}}</tr></thead>
<tbody>{{range .Head}}<tr>{{range .}}<td>{{.}}</td>{{end}}</tr>{{end}}</tbody></table>
<h3>Last rows</h3>
<table><thead><tr>{{range .Columns}}<th>{{.}}</th>{{end}}</tr></thead>
<tbody>{{range .Tail}}<tr>{{range .}}<td>{{.}}</td>{{end}}</tr>{{end}}</tbody></table>
</section>
`))

var summaryTmpl = template.Must(template.New("summary").Funcs(tmplFuncs).Parse(`<section id="summary">
<h2>Summary</h2>
<table>
<thead><tr><th>Variable</th><th>Type</th><th>Non-null</th><th>Nulls</th><th>% Nulls</th><th>Unique</th><th>% Unique</th><th>Constant</th><th>Quasi-constant</th><th>High cardinality</th><th>Quality</th></tr></thead>
<tbody>
{{range .}}<tr><td>{{.Name}}</td><td>{{.KindName}}</td><td>{{.NonNull}}</td><td>{{.Nulls}}</td><td>{{pct .NullPct}}</td><td>{{.Unique}}</td><td>{{pct .UniquePct}}</td><td>{{yesno .Constant}}</td><td>{{yesno .QuasiConstant}}</td><td>{{yesno .HighCardinality}}</td><td class="quality-{{.Quality}}">{{.Quality}}</td></tr>
{{end}}</tbody>
</table>
<h3>Numeric variables</h3>
<table>
<thead><tr><th>Variable</th><th>Mean</th><th>Median</th><th>Std</th><th>Min</th><th>Q1</th><th>Q3</th><th>Max</th><th>IQR</th><th>Skew</th><th>Kurtosis</th><th>Outliers</th></tr></thead>
<tbody>
{{range .}}{{if .Numeric}}<tr><td>{{.Name}}</td><td>{{num .Numeric.Mean}}</td><td>{{num .Numeric.Median}}</td><td>{{num .Numeric.Std}}</td><td>{{num .Numeric.Min}}</td><td>{{num .Numeric.Q1}}</td><td>{{num .Numeric.Q3}}</td><td>{{num .Numeric.Max}}</td><td>{{num .Numeric.IQR}}</td><td>{{num .Numeric.Skewness}}</td><td>{{num .Numeric.Kurtosis}}</td><td>{{.Numeric.Outliers}} ({{pct .Numeric.OutlierPct}})</td></tr>
{{end}}{{end}}</tbody>
</table>
<h3>Categorical variables</h3>
<table>
<thead><tr><th>Variable</th><th>Top</th><th>Top freq</th><th>Rare</th><th>Avg length</th><th>Max length</th><th>Numeric-like</th><th>Datetime-like</th></tr></thead>
<tbody>
{{range .}}{{if .Categorical}}<tr><td>{{.Name}}</td><td>{{.Categorical.Top}}</td><td>{{.Categorical.TopFreq}} ({{pct .Categorical.TopPct}})</td><td>{{.Categorical.RareCategories}}</td><td>{{num .Categorical.AvgLength}}</td><td>{{.Categorical.MaxLength}}</td><td>{{yesno .Categorical.NumericLike}}</td><td>{{yesno .Categorical.DatetimeLike}}</td></tr>
{{end}}{{end}}</tbody>
</table>
<h3>Binary variables</h3>
<table>
<thead><tr><th>Variable</th><th>Top</th><th>Top freq</th><th>Balance</th></tr></thead>
<tbody>
{{range .}}{{if .Binary}}<tr><td>{{.Name}}</td><td>{{.Binary.Top}}</td><td>{{.Binary.TopFreq}} ({{pct .Binary.TopPct}})</td><td>{{pct .Binary.Balance}}</td></tr>
{{end}}{{end}}</tbody>
</table>
<h3>Datetime variables</h3>
<table>
<thead><tr><th>Variable</th><th>Min</th><th>Max</th><th>Range (days)</th><th>Has time</th><th>Future dates</th></tr></thead>
<tbody>
{{range .}}{{if .Datetime}}<tr><td>{{.Name}}</td><td>{{.Datetime.Min}}</td><td>{{.Datetime.Max}}</td><td>{{.Datetime.RangeDays}}</td><td>{{yesno .Datetime.HasTime}}</td><td>{{.Datetime.FutureDates}}</td></tr>
{{end}}{{end}}</tbody>
</table>
</section>
`))

var corrTmpl = template.Must(template.New("correlations").Funcs(tmplFuncs).Parse(`<section id="correlations">
<h2>Correlations</h2>
{{if not .}}<p><strong>Not enough numeric columns to compute correlations.</strong></p>
{{else}}<p class="file-info">Spearman rank correlation</p>
<table class="corr-table">
<thead><tr><th></th>{{range .Columns}}<th>{{.}}</th>{{end}}</tr></thead>
<tbody>
{{range .Rows}}<tr><th>{{.Name}}</th>{{range .Cells}}<td style="{{.Style}}">{{.Label}}</td>{{end}}</tr>
{{end}}</tbody>
</table>
<p><strong>Significant correlations (threshold &plusmn;{{num .Threshold}}):</strong></p>
{{if not .Pairs}}<p><em>No significant correlations have been detected.</em></p>
{{else}}<ul>{{range .Pairs}}<li>{{.A}} vs {{.B}}: <strong>{{num .Rho}}</strong></li>{{end}}</ul>
{{end}}{{end}}
</section>
`))

var outlierTmpl = template.Must(template.New("outliers").Funcs(tmplFuncs).Parse(`<section id="outliers">
<h2>Outliers</h2>
{{if not .}}<p><strong>There are no numerical variables to detect outliers.</strong></p>
{{else}}<p class="file-info">Detected according to Tukey's criterion (1.5 &times; IQR)</p>
<table>
<thead><tr><th>Variable</th><th>Lower fence</th><th>Q1</th><th>Median</th><th>Q3</th><th>Upper fence</th><th>Outliers</th><th>Most extreme</th></tr></thead>
<tbody>
{{range .}}<tr><td>{{.Column}}</td><td>{{num .Lower}}</td><td>{{num .Q1}}</td><td>{{num .Median}}</td><td>{{num .Q3}}</td><td>{{num .Upper}}</td><td>{{.Count}} ({{pct .Pct}})</td><td>{{range $i, $v := .Extremes}}{{if $i}}, {{end}}{{num $v}}{{end}}</td></tr>
{{end}}</tbody>
</table>
{{end}}
</section>
`))
