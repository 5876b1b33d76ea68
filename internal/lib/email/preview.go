package email

// PreviewData holds sample data for every template, keyed by template name.
// It is used to render templates locally and in tests.
var PreviewData = map[Template]map[string]string{
	TemplateWelcome: {
		"UserName": "bob",
	},
}
