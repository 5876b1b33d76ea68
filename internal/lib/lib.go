// Package lib holds integrations that do not belong to a single layer:
// background jobs (asynq), email delivery (Resend), bearer tokens and the
// Redis session store.
package lib
