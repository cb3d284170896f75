/*
Package provider fetches single files from remote repositories.

It backs remote prompt sources: `--prompt github:owner/repo/path@ref` is parsed
by ParseRef and downloaded by the provider registered for the scheme.

	+------------+      +----------+      +-----------------+
	|  ParseRef  | ---> | Registry | ---> | github.Provider |
	| scheme:... |      | Get(name)|      | (go-github)     |
	+------------+      +----------+      +-----------------+

Providers register themselves from an init function, so importing
pkg/provider/github for side effects enables the github scheme.

🔍 Example:

	ref, ok, err := provider.ParseRef("github:acme/prompts/vue3.md@v1")
	if err != nil {
		return err
	}
	if ok {
		data, err := provider.Fetch(ctx, ref)
		...
	}
*/
package provider
