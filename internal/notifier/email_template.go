package notifier

const emailHTMLTemplate = `<!DOCTYPE html>
<html>
<head>
  <meta charset="UTF-8" />
  <meta name="viewport" content="width=device-width, initial-scale=1" />
  <title>Headline sentiment - {{.Finished}}</title>
  <style>
    body {
      margin: 0;
      padding: 24px;
      background-color: #f3f4f6;
      font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, sans-serif;
      color: #111827;
      line-height: 1.5;
    }

    .container {
      max-width: 640px;
      margin: 0 auto;
      background: #ffffff;
      border-radius: 8px;
      border: 1px solid #e5e7eb;
      overflow: hidden;
    }

    .header {
      padding: 20px 24px;
      background: #1f2937;
      color: #ffffff;
    }

    .header h1 {
      font-size: 20px;
      margin: 0 0 4px 0;
    }

    .section {
      padding: 16px 24px;
      border-top: 1px solid #f3f4f6;
    }

    .section-title {
      font-size: 11px;
      font-weight: 700;
      color: #6b7280;
      text-transform: uppercase;
      letter-spacing: 0.1em;
      margin-bottom: 12px;
    }

    table {
      width: 100%;
      border-collapse: collapse;
      font-size: 14px;
    }

    th, td {
      text-align: left;
      padding: 6px 8px;
      border-bottom: 1px solid #f3f4f6;
    }

    .positive { color: #059669; font-weight: 600; }
    .negative { color: #dc2626; font-weight: 600; }
    .neutral  { color: #6b7280; }

    .footer {
      padding: 16px 24px;
      font-size: 12px;
      color: #9ca3af;
      text-align: center;
      background: #f9fafb;
      border-top: 1px solid #f3f4f6;
    }
  </style>
</head>
<body>
  <div class="container">
    <div class="header">
      <h1>Headline sentiment</h1>
      <div>{{.Finished}} · {{.Tickers}} tickers · {{.Headlines}} headlines · {{.Malformed}} malformed rows</div>
    </div>

    <div class="section">
      <div class="section-title">Mean daily sentiment</div>
      {{if .Rows}}
      <table>
        <tr><th>Ticker</th><th>Date</th><th>Mean</th><th>Headlines</th></tr>
        {{range .Rows}}
        <tr>
          <td>{{.Ticker}}</td>
          <td>{{.Date}}</td>
          <td class="{{.Class}}">{{.Mean}}</td>
          <td>{{.Count}}</td>
        </tr>
        {{end}}
      </table>
      {{else}}
      <p>No headlines collected.</p>
      {{end}}
    </div>

    {{if .Failures}}
    <div class="section">
      <div class="section-title">Skipped tickers</div>
      <ul>
        {{range .Failures}}
        <li><b>{{.Ticker}}</b> ({{.Stage}}): {{.Error}}</li>
        {{end}}
      </ul>
    </div>
    {{end}}

    <div class="footer">Run {{.RunID}}</div>
  </div>
</body>
</html>`
