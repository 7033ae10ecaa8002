package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// WriteTree writes files (slash-separated relative path to content) under dir.
func WriteTree(t testing.TB, dir string, files map[string]string) {
	t.Helper()
	for rel, content := range files {
		path := filepath.Join(dir, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
}

// SPFxProject returns the files of a minimal React web part project at version.
func SPFxProject(version string) map[string]string {
	return map[string]string{
		".yo-rc.json": `{
  "@microsoft/generator-sharepoint": {
    "version": "` + version + `",
    "framework": "react",
    "componentType": "webpart",
    "environment": "spo"
  }
}`,
		"package.json": `{
  "name": "hello-world",
  "version": "0.0.1",
  "dependencies": {
    "@microsoft/sp-core-library": "` + version + `",
    "@microsoft/sp-webpart-base": "` + version + `",
    "react": "16.13.1",
    "react-dom": "16.13.1"
  },
  "devDependencies": {
    "@microsoft/sp-build-web": "` + version + `",
    "@microsoft/sp-module-interfaces": "` + version + `"
  }
}`,
		"tsconfig.json": `{
  "extends": "./node_modules/@microsoft/rush-stack-compiler-3.9/includes/tsconfig-web.json",
  "compilerOptions": {"noImplicitAny": false}
}`,
		"config/config.json": `{
  "$schema": "https://developer.microsoft.com/json-schemas/spfx-build/config.2.0.schema.json",
  "version": "2.0",
  "externals": {}
}`,
		"gulpfile.js": "'use strict';\n\nconst build = require('@microsoft/sp-build-web');\n\nbuild.initialize(require('gulp'));\n",
		".gitignore":  "node_modules\nlib\n",

		"src/webparts/helloWorld/HelloWorldWebPart.ts":              "import { Version } from '@microsoft/sp-core-library';\n",
		"src/webparts/helloWorld/components/HelloWorld.module.scss": "@import '~office-ui-fabric-react/dist/sass/References.scss';\n\n.helloWorld { color: red; }\n",
		"src/webparts/helloWorld/components/HelloWorld.tsx":         "import * as React from 'react';\n",
	}
}
