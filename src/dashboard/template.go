package dashboard

// dashboardHTML is the single-page upload-and-result view. It is embedded so
// the binary ships self-contained.
const dashboardHTML = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>FloraGuard - Leaf Disease Detection</title>
<style>
  body { font-family: -apple-system, "Segoe UI", Roboto, sans-serif; margin: 0; background: #f4f7f4; color: #233; }
  .wrap { max-width: 760px; margin: 0 auto; padding: 24px 16px 48px; }
  h1 { color: #2e7d32; margin-bottom: 4px; }
  .subtitle { color: #667; margin-top: 0; }
  .card { background: #fff; border-radius: 10px; padding: 20px; margin-top: 16px; box-shadow: 0 1px 4px rgba(0,0,0,.08); }
  .banner { border-radius: 8px; padding: 12px 16px; margin-top: 16px; }
  .banner.error { background: #fdecea; color: #b71c1c; }
  .status { display: inline-block; border-radius: 6px; padding: 4px 12px; font-weight: 600; }
  .status.healthy { background: #e8f5e9; color: #2e7d32; }
  .status.infected { background: #fdecea; color: #c62828; }
  .meta { color: #667; font-size: .9em; margin-top: 12px; }
  ul { margin: 6px 0 12px; padding-left: 22px; }
  label { font-weight: 600; }
  .modes { margin: 12px 0; }
  .modes label { font-weight: 400; margin-right: 16px; }
  button { background: #2e7d32; color: #fff; border: 0; border-radius: 6px; padding: 10px 22px; font-size: 1em; cursor: pointer; }
  button:hover { background: #27682b; }
  .endpoint { color: #889; font-size: .85em; }
  .tips { background: #fff8e1; border-radius: 8px; padding: 12px 16px; }
  .explanation { white-space: pre-line; }
</style>
</head>
<body>
<div class="wrap">
  <h1>🌿 FloraGuard</h1>
  <p class="subtitle">Upload a photo of a plant leaf to check it for diseases.</p>

  {{if .Error}}
  <div class="banner error">{{.Error}}</div>
  {{end}}

  <div class="card">
    <form method="post" action="/dashboard/analyze" enctype="multipart/form-data">
      <label for="file">Leaf photo</label><br>
      <input id="file" type="file" name="file" accept="image/jpeg,image/png,image/webp" required>
      <div class="modes">
        <label><input type="radio" name="mode" value="api" {{if ne .Mode "direct"}}checked{{end}}> Detection API</label>
        <label><input type="radio" name="mode" value="direct" {{if eq .Mode "direct"}}checked{{end}} {{if not .DirectReady}}disabled{{end}}> Direct AI analysis{{if not .DirectReady}} (not configured){{end}}</label>
      </div>
      <button type="submit">Analyze leaf</button>
    </form>
    <p class="endpoint">Detection backend: {{.Endpoint}}</p>
  </div>

  {{if .Result}}
  <div class="card">
    {{if .InvalidImage}}
    <h2>📷 Please retake the photo</h2>
    <p>The picture does not appear to show a plant leaf, so no diagnosis was made.</p>
    <div class="tips">
      <strong>Tips for a usable photo:</strong>
      <ul>
        <li>Fill the frame with a single leaf</li>
        <li>Use daylight or bright, even lighting</li>
        <li>Hold the camera steady and keep the leaf in focus</li>
        <li>Avoid busy backgrounds</li>
      </ul>
    </div>
    {{else}}
    <h2>{{.Result.Name}}</h2>
    {{if .Result.DiseaseDetected}}
    <span class="status infected">{{.Result.Status}}</span>
    {{else}}
    <span class="status healthy">{{.Result.Status}}</span>
    {{end}}
    <p><strong>Severity:</strong> {{.Result.Severity}} &middot; <strong>Confidence:</strong> {{printf "%.0f" .Result.Confidence}}%</p>

    {{if .Result.Symptoms}}
    <strong>Symptoms</strong>
    <ul>{{range .Result.Symptoms}}<li>{{.}}</li>{{end}}</ul>
    {{end}}

    {{if .Result.PossibleCauses}}
    <strong>Possible causes</strong>
    <ul>{{range .Result.PossibleCauses}}<li>{{.}}</li>{{end}}</ul>
    {{end}}

    {{if .Result.Treatment}}
    <strong>Treatment</strong>
    <ul>{{range .Result.Treatment}}<li>{{.}}</li>{{end}}</ul>
    {{end}}

    {{if .Explanation}}
    <strong>About this disease</strong>
    <p class="explanation">{{.Explanation}}</p>
    {{end}}

    <p class="meta">Source: {{.Result.Source}} &middot; Analyzed at {{.Result.AnalysisTimestamp}}</p>
    {{end}}
  </div>
  {{end}}
</div>
</body>
</html>
`
