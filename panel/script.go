package panel

import (
	"encoding/json"
	"strings"
	"text/template"
)

const scriptTemplate = `(function () {
	var bindings = {{ .Bindings }};

	function bind() {
		bindings.forEach(function (b) {
			var el = document.getElementById(b.id);
			if (el === null) {
				return;
			}
			el.addEventListener('click', function (event) {
				event.preventDefault();
				fetch(b.path)
					.then(function (resp) { return resp.json(); })
					.then(function () {}, function () {});
				return false;
			});
		});
	}

	if (document.readyState === 'loading') {
		document.addEventListener('DOMContentLoaded', bind);
	} else {
		bind();
	}
})();
`

var scriptTmpl = template.Must(template.New("script").Parse(scriptTemplate))

var script = mustRenderScript()

func mustRenderScript() string {
	b, err := json.Marshal(bindings)
	if err != nil {
		panic(err)
	}

	var sb strings.Builder
	if err := scriptTmpl.Execute(&sb, struct{ Bindings string }{string(b)}); err != nil {
		panic(err)
	}
	return sb.String()
}

// Script returns the browser script that attaches a click listener to each
// bound element once the page is ready.
func Script() string {
	return script
}
