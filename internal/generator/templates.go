package generator

import "text/template"

// Artifact templates. The generated convention is a functional component
// with its behavior split into addressable units (store actions, guards,
// selectors, services, view branches) so every mapped pattern has a named
// home.

var sourceTmpl = template.Must(template.New("source").Parse(
	`import { createStore } from '@app/state';
import { useGuards } from '@app/guards';
{{- if .HasServices}}
import { services } from '@app/services';
{{- end}}
import type { {{.Name}}Props } from './{{.Name}}.types';

{{- if .HookMappings}}

const store = createStore({
{{- range .HookMappings}}
  // {{.Source.Hook}}{{if .Source.Initializer}} (initial: {{.Source.Initializer}}){{end}}
  {{.Target}},
{{- end}}
});
{{- end}}

export function {{.Name}}(props: {{.Name}}Props) {
{{- range .Mappings}}
  // {{.Target}} [{{.Strategy}}]
  // {{.Rewritten}}
{{- end}}
  return render(props{{if .HookMappings}}, store{{end}});
}
`))

var propsTmpl = template.Must(template.New("props").Parse(
	`export interface {{.Name}}Props {
{{- range .Props}}
  {{.Name}}{{if not .Required}}?{{end}}: {{if .Type}}{{.Type}}{{else}}unknown{{end}};{{if .Default}} // default: {{.Default}}{{end}}
{{- end}}
}
`))

var stateTmpl = template.Must(template.New("state").Parse(
	`export interface {{.Name}}State {
{{- range .HookMappings}}
{{- if .Source.Bindings}}
  {{index .Source.Bindings 0}}: unknown;{{if .Source.Initializer}} // initial: {{.Source.Initializer}}{{end}}
{{- end}}
{{- end}}
}
`))

var responseTmpl = template.Must(template.New("response").Parse(
	`export interface {{.Name}}Response {
  data: unknown;
  error?: string;
}
`))

var testTmpl = template.Must(template.New("test").Parse(
	`import { render } from '@app/testing';
import { {{.Name}} } from './{{.Name}}';

describe('{{.Name}}', () => {
  it('renders', () => {
    render({{.Name}});
  });
{{- range .Mappings}}

  it.todo('preserves {{.Target}}');
{{- end}}
});
`))

var readmeTmpl = template.Must(template.New("readme").Parse(
	`# {{.Name}}

Migrated from {{.SourcePath}}.

Mapped units: {{len .Mappings}}. Hook mappings: {{len .HookMappings}}.
{{- if .Unmapped}}

## Unmapped patterns
{{- range .Unmapped}}
- pattern {{.PatternIndex}}: {{.Reason}}
{{- end}}
{{- end}}
`))
