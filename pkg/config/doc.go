/*
Package config builds the engine configuration for vue3-migrate.

	+----------+    +-----------+    +-------------+    +---------+
	| Defaults | -> | .vue3-    | -> | environment | -> |  flags  |
	|          |    | migrate.* |    | (.env too)  |    | (cobra) |
	+----------+    +-----------+    +-------------+    +---------+
	                      |
	      +-------+-------+-------+-------+
	      | YAML  | JSON  |  HCL  | TOML  |
	      +-------+-------+-------+-------+

🎯 Purpose:
- Holds the immutable Config the engine copies at construction
- Loads optional config files in four formats
- Reads OPENAI_API_KEY and friends from the process or a .env file
- Rejects unusable configurations before any file is processed

🔄 Flow:
1. Start from Defaults()
2. Find and Load a config file, then File.Apply
3. ApplyEnv with the Environment lookup
4. The CLI applies flags the user actually set
5. Validate

A File uses pointer fields so that a value written in a config file is
distinguishable from an absent one.

🔍 Example:

	cfg := config.Defaults()
	if path := config.Find("."); path != "" {
		f, err := config.Load(ctx, path)
		if err != nil {
			return err
		}
		if cfg, err = f.Apply(cfg); err != nil {
			return err
		}
	}
	lookup, err := config.Environment(".env")
	if err != nil {
		return err
	}
	if cfg, err = config.ApplyEnv(cfg, lookup); err != nil {
		return err
	}
	return cfg.Validate()
*/
package config
