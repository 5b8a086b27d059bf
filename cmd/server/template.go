package main

import (
	"html/template"
	"time"

	"github.com/mtraver/rpi-thermal-cam/camera"
	"github.com/mtraver/rpi-thermal-cam/panel"
)

var labels = map[string]string{
	"save":               "Save snapshot",
	"units":              "C / F",
	"colormap-next":      "Next colormap",
	"colormap-prev":      "Previous colormap",
	"filter":             "Filter",
	"interpolation-next": "Next interpolation",
	"interpolation-prev": "Previous interpolation",
	"exit":               "Exit",
}

func label(id string) string {
	if l, ok := labels[id]; ok {
		return l
	}
	return id
}

var templates = template.Must(template.New("thermalcam").Funcs(
	template.FuncMap{
		"label": label,
		"unit":  camera.Unit,
		"RFC3339": func(t time.Time) string {
			return t.Format(time.RFC3339)
		},
		"script": func() template.JS {
			return template.JS(panel.Script())
		},
	}).Parse(indexTemplate + statusTemplate))

const indexTemplate = `
{{ define "index" }}
<!doctype html>
<html lang="en">
	<head>
		<meta charset="utf-8">
		<meta name="viewport" content="width=device-width, initial-scale=1.0">

		<title>RPi Thermal Camera</title>

		<link rel="stylesheet"
		 href="https://stackpath.bootstrapcdn.com/bootstrap/4.3.1/css/bootstrap.min.css"
		 integrity="sha384-ggOyR0iXCbMQv3Xipma34MD+dH/1fQ784/j6cY/iJTQUOhcWr7x9JvoRxT2MZw1T"
		 crossorigin="anonymous">
	</head>
	<body>
		<div class="container mt-1">
			<div class="col-sm text-center">
				<p><b>{{ .Device }}</b></p>

				{{ range .Bindings }}
					<a href="#" class="btn btn-primary" id="{{ .ID }}">{{ label .ID }}</a>
					<br>
					<br>
				{{ end }}

				<p style="font-size: 0.75em;"><a href="/status">status</a></p>
				<p style="font-size: 0.75em;"><b>Fun fact!</b> {{ .FunFact }}</p>
			</div>
		</div>
	</body>

	<script type="text/javascript">{{ script }}</script>
</html>
{{ end }}
`

const statusTemplate = `
{{ define "status" }}
<!doctype html>
<html lang="en">
	<head>
		<meta charset="utf-8">
		<title>{{ .Device }} status</title>
	</head>
	<body>
		<p>
			Units: {{ unit .Settings.UseF }}<br>
			Filter: {{ .Settings.Filter }}<br>
			Colormap: {{ .Settings.Colormap }}<br>
			Interpolation: {{ .Settings.Interpolation }}
		</p>

		<table>
			<tr><th>Time</th><th>Action</th><th>Success</th></tr>
			{{ range .Actions }}
				<tr class="action"><td>{{ RFC3339 .Timestamp }}</td><td>{{ .Action }}</td><td>{{ .Success }}</td></tr>
			{{ end }}
		</table>
	</body>
</html>
{{ end }}
`

var funFacts = []string{
	"The wavelength of infrared radiation ranges from about 700 nm to 1 mm.",
	"Thermal cameras see emitted long-wave infrared, roughly 8 to 14 μm, not reflected light.",
	"The ability to sense infrared thermal radiation evolved independently in two different groups of snakes, Boidae (boas and pythons) and Crotalinae (pit vipers).",
	"The discovery of infrared radiation is ascribed to William Herschel in the early 19th century. He called infrared radiation \"calorific rays\".",
	"Humans at normal body temperature radiate chiefly at wavelengths around 10 μm.",
	"Glass is opaque to long-wave infrared, so a thermal camera cannot see through a window.",
	"A 32x24 thermal sensor array reads 768 temperatures per frame.",
}
