// Package auth groups the EasyVents sign-in flow: the backend client, input
// validation, the current-user session store, and the form controller that
// ties them together. Nothing here renders HTML; the web service and the
// browser bundle supply the view.
package auth
