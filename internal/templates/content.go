package templates

const licenseTemplate = `MIT License

Copyright (c) {{.Root}} authors

Permission is hereby granted, free of charge, to any person obtaining a copy
of this software and associated documentation files (the "Software"), to deal
in the Software without restriction, including without limitation the rights
to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
copies of the Software, and to permit persons to whom the Software is
furnished to do so, subject to the following conditions:

The above copyright notice and this permission notice shall be included in all
copies or substantial portions of the Software.
`

const packageJSONTemplate = `{
  "name": {{json .Root}},
  "version": "1.0.0",
  "description": {{printf "Generated by %s" .Generator | json}},
  "main": "index.js",
  "scripts": {
    "build": "node build.js",
    "test": "jest",
    "lint": "eslint src/"
  },
  "keywords": [],
  "author": "",
  "license": "MIT"
}
`

const ignoreTemplate = `node_modules/
dist/
*.log
.DS_Store
.env
`

const eslintTemplate = `{
  "extends": ["eslint:recommended"],
  "env": {
    "node": true,
    "es6": true
  },
  "parserOptions": {
    "ecmaVersion": 2020
  }
}
`

const prettierTemplate = `{
  "semi": true,
  "singleQuote": true,
  "tabWidth": 2
}
`

const goModTemplate = `// Generated by {{.Generator}}

module {{.Root}}

go 1.22
`

const workflowTemplate = `# {{.Name}}
# Generated by {{.Generator}}

name: {{.Name}}

on:
  push:
    branches: [main]
  pull_request:

jobs:
  build:
    runs-on: ubuntu-latest
    steps:
      - uses: actions/checkout@v4
`

const issueTemplate = `---
name: {{.Name}}
about: Placeholder issue template
---

Generated by {{.Generator}}.
`

const dtsTemplate = `// Type definitions for {{.Name}}
// Generated by {{.Generator}}

export {};
`

const jsTemplate = `// {{.Name}}
// Generated by {{.Generator}}

function main() {
    console.log("Hello from {{.Name}}");
}

module.exports = { main };
`

const pythonTemplate = `# {{.Name}}
# Generated by {{.Generator}}

def main():
    print("Hello from {{.Name}}")

if __name__ == "__main__":
    main()
`

const dartTemplate = `// {{.Name}}
// Generated by {{.Generator}}

void main() {
    print('Hello from {{.Name}}');
}
`

const goTemplate = `// {{.Name}}
// Generated by {{.Generator}}

package {{.Package}}
`

const markdownTemplate = `# {{.Name}}

This file was generated by {{.Generator}}.

## Description

Placeholder content for {{.Name}}.
`

const jsonTemplate = `{
  "generated_by": {{json .Generator}},
  "file": {{json .Name}},
  "description": "Placeholder configuration file"
}
`

const yamlTemplate = `# {{.Name}}
# Generated by {{.Generator}}

name: "Project Configuration"
version: "1.0.0"
description: "Placeholder YAML configuration"
`

const commentDefaultTemplate = `{{.Comment}} {{.Name}}
{{.Comment}} Generated by {{.Generator}} ({{.Language}})
`

const plainDefaultTemplate = `# {{.Name}}

This file was generated by {{.Generator}}.

File: {{.Path}}
`
