//go:build mage

package main

import (
	"fmt"
	"os"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

const (
	binaryName = "indictrans"
	lambdaName = "bootstrap"
)

// Default target to run when none is specified
var Default = Build

// Build builds the desktop/CLI binary
func Build() error {
	fmt.Println("Building", binaryName)
	return sh.RunV("go", "build", "-o", binaryName, "./cmd/indictrans")
}

// Lambda builds the AWS Lambda bootstrap for the provided.al2023 runtime
func Lambda() error {
	fmt.Println("Building", lambdaName)
	env := map[string]string{
		"GOOS":        "linux",
		"GOARCH":      "arm64",
		"CGO_ENABLED": "0",
	}
	return sh.RunWithV(env, "go", "build", "-tags", "lambda.norpc", "-o", lambdaName, "./cmd/lambda")
}

// Test runs all tests
func Test() error {
	return sh.RunV("go", "test", "./...")
}

// Vet runs go vet
func Vet() error {
	return sh.RunV("go", "vet", "./...")
}

// Install installs the binary into GOPATH/bin
func Install() error {
	mg.Deps(Test)
	return sh.RunV("go", "install", "./cmd/indictrans")
}

// Clean removes build artifacts
func Clean() error {
	for _, f := range []string{binaryName, lambdaName} {
		if err := os.RemoveAll(f); err != nil {
			return err
		}
	}
	return nil
}

// All runs vet, tests and both builds
func All() {
	mg.SerialDeps(Vet, Test, Build, Lambda)
}
