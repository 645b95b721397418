package reminder

import (
	"html/template"
	"strings"

	"github.com/eisengo/backend/domain"
)

// digestTemplate mirrors the digest layout users already receive: a greeting,
// one bullet per pending task, a sign-off.
var digestTemplate = template.Must(template.New("digest").Parse(`<html>
<body>
    <h2>Hi {{.Username}},</h2>
    <p>Here are your pending tasks for today:</p>
    <ul>
{{- range .Tasks}}
        <li><b>{{.Title}}:</b> {{.Description}}</li>
{{- end}}
    </ul>
    <p>Have a productive day!</p>
</body>
</html>
`))

type digestData struct {
	Username string
	Tasks    []domain.Task
}

func renderDigest(username string, tasks []domain.Task) (string, error) {
	var sb strings.Builder
	if err := digestTemplate.Execute(&sb, digestData{Username: username, Tasks: tasks}); err != nil {
		return "", err
	}
	return sb.String(), nil
}
