/*
Package config loads file-based sync configuration.

	            +-------------+
	            |   Config    |
	            |  (sources,  |
	            |   target)   |
	            +------+------+
	                   |
	      +------------+------------+
	      |            |            |
	+-----+----+ +-----+----+ +-----+----+
	|   YAML   | |   HCL    | |   JSON   |
	|  Parser  | |  Parser  | |  Parser  |
	+----------+ +----------+ +----------+

🎯 Purpose:
- Reads sources, target and tuning knobs from a file
- Picks a parser by file extension
- Normalizes paths relative to the config file

🔄 Flow:
1. Reads configuration from file
2. Parses format-specific syntax (unknown fields are rejected)
3. Validates and fills defaults

📝 HCL files can read the environment:

	sources = ["${env.HOME}/notes"]
	target  = "/mnt/backup"
	exclude = ["notes/.git"]

🔍 Example:

	cfg, err := config.Load(ctx, "filesync.yaml")
	if err != nil {
		return err
	}
	fmt.Println(cfg) // /home/me/notes -> /mnt/backup
*/
package config
