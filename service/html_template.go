package service

// duplicationHTMLTemplate renders a DuplicationHTMLData as a single page
const duplicationHTMLTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>{{.Title}}</title>
    <style>
        * { margin: 0; padding: 0; box-sizing: border-box; }
        body {
            font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, 'Helvetica Neue', Arial, sans-serif;
            line-height: 1.6;
            color: #333;
            background: linear-gradient(135deg, #667eea 0%, #764ba2 100%);
            min-height: 100vh;
        }
        .container { max-width: 1200px; margin: 0 auto; padding: 20px; }
        .header, .content {
            background: white;
            border-radius: 10px;
            padding: 30px;
            margin-bottom: 20px;
            box-shadow: 0 10px 30px rgba(0,0,0,0.1);
        }
        .header h1 { color: #667eea; margin-bottom: 10px; }
        .header p { color: #666; font-size: 14px; }
        .score-badge {
            display: inline-block;
            padding: 10px 20px;
            border-radius: 50px;
            font-size: 24px;
            font-weight: bold;
            margin: 10px 0;
            color: white;
        }
        .grade-a { background: #4caf50; }
        .grade-b { background: #8bc34a; }
        .grade-c { background: #ff9800; }
        .grade-d { background: #ff5722; }
        .grade-f { background: #f44336; }
        .metric-grid {
            display: grid;
            grid-template-columns: repeat(auto-fit, minmax(200px, 1fr));
            gap: 20px;
            margin: 20px 0;
        }
        .metric-card {
            background: #f8f9fa;
            padding: 20px;
            border-radius: 8px;
            text-align: center;
            border-left: 4px solid #667eea;
        }
        .metric-value { font-size: 32px; font-weight: bold; color: #667eea; }
        .metric-label { color: #666; margin-top: 5px; }
        .section-header {
            font-size: 24px;
            color: #2c3e50;
            margin-bottom: 20px;
            padding-bottom: 10px;
            border-bottom: 2px solid #e9ecef;
        }
        .item { border-bottom: 1px solid #e9ecef; padding: 16px 0; }
        .item h3 { font-size: 16px; }
        .item ul { list-style: none; margin: 8px 0 0 16px; font-family: monospace; }
        .status-badge {
            display: inline-block;
            padding: 2px 10px;
            border-radius: 12px;
            font-size: 12px;
            font-weight: bold;
        }
        .status-danger { background: #f8d7da; color: #721c24; }
        .status-warning { background: #fff3cd; color: #856404; }
        .fuzzy { color: #856404; }
        pre {
            background: #f8f9fa;
            padding: 12px;
            border-radius: 6px;
            overflow-x: auto;
            margin-top: 8px;
            font-size: 13px;
        }
        .table { width: 100%; border-collapse: collapse; margin: 20px 0; }
        .table th { background: #667eea; color: white; padding: 12px; text-align: left; }
        .table td { padding: 12px; border-bottom: 1px solid #e9ecef; }
        .footer { margin-top: 40px; padding: 20px; text-align: center; color: white; font-size: 14px; }
    </style>
</head>
<body>
<div class="container">
    <div class="header">
        <h1>{{.Title}}</h1>
        <p>Generated {{.Response.GeneratedAt}} in {{.Response.Duration}}ms</p>
        <div class="score-badge grade-{{.Grade}}">Total score: {{.Response.Total}}</div>
        <div class="metric-grid">
            <div class="metric-card"><div class="metric-value">{{.Response.Statistics.FilesAnalyzed}}</div><div class="metric-label">Files analyzed</div></div>
            <div class="metric-card"><div class="metric-value">{{.Response.Statistics.TotalItems}}</div><div class="metric-label">Matches</div></div>
            <div class="metric-card"><div class="metric-value">{{.Response.Statistics.IdenticalItems}}</div><div class="metric-label">Identical</div></div>
            <div class="metric-card"><div class="metric-value">{{.Response.Statistics.FilesSkipped}}</div><div class="metric-label">Skipped files</div></div>
        </div>
    </div>

    {{if .Response.Items}}
    <div class="content">
        <h2 class="section-header">Matches</h2>
        {{range $i, $item := .Response.Items}}
        <div class="item">
            <h3>{{inc $i}}) <span class="status-badge {{if $item.Identical}}status-danger{{else}}status-warning{{end}}">{{$item.Kind}}</span>
                :{{$item.Type}} (mass{{$item.Bonus}} = {{$item.Mass}}, similarity {{percent $item.Similarity}})</h3>
            <ul>
                {{range $item.Locations}}<li>{{.File}}:{{.Line}}{{if .Fuzzy}} <span class="fuzzy">(FUZZY)</span>{{end}}</li>{{end}}
            </ul>
            {{range $item.Sources}}<pre>{{.}}</pre>{{end}}
        </div>
        {{end}}
    </div>
    {{end}}

    {{if .Response.Summary}}
    <div class="content">
        <h2 class="section-header">Files</h2>
        <table class="table">
            <tr><th>File</th><th>Score</th></tr>
            {{range .Response.Summary}}<tr><td>{{.File}}</td><td>{{printf "%.2f" .Score}}</td></tr>{{end}}
        </table>
    </div>
    {{end}}

    {{if .Response.Diagnostics}}
    <div class="content">
        <h2 class="section-header">Diagnostics</h2>
        <table class="table">
            <tr><th>File</th><th>Code</th><th>Message</th></tr>
            {{range .Response.Diagnostics}}<tr><td>{{.File}}</td><td>{{.Code}}</td><td>{{.Message}}</td></tr>{{end}}
        </table>
    </div>
    {{end}}

    <div class="footer">shapedup {{.Response.Version}}</div>
</div>
</body>
</html>
`
