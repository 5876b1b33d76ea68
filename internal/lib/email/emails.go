package email

// SendWelcomeEmail greets a newly registered user.
func (c *Client) SendWelcomeEmail(to, userName string) error {
	data := map[string]string{
		"UserName": userName,
	}

	return c.SendEmail(
		to,
		"Welcome!",
		TemplateWelcome,
		data,
	)
}
