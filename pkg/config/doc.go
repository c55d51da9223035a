// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

/*
Package config loads the settings of a librewrite run.

	            +-------------+
	            |   Config    |
	            | (Settings)  |
	            +------+------+
	                   |
	     +-------------+-------------+
	     |             |             |
	+----+----+   +----+----+   +----+----+
	|  YAML   |   |   HCL   |   |  JSON   |
	+---------+   +---------+   +---------+

🎯 Purpose:
  - Pick the format from the file extension
  - Reject unknown fields
  - Resolve script and root relative to the config file
  - Default to keeping backups and a single worker

🔍 Example (.librewrite.hcl):

	script      = "migrate.rules"
	root        = "${env.HOME}/docs"
	extensions  = [".md", ".txt"]
	ignore      = ["vendor", "node_modules"]
	keep_backup = true
*/
package config
