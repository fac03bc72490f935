package graph_test

import (
	"fmt"

	"github.com/matzehuels/nugetviz/pkg/graph"
)

func ExampleParseDependency() {
	dep, err := graph.ParseDependency("Newtonsoft.Json:13.0.1:net45")
	if err != nil {
		fmt.Println("Error:", err)
		return
	}
	fmt.Println(dep.NugetID, dep.Version)
	fmt.Println(graph.ExternalLabel(dep))
	fmt.Println(graph.ExternalLabel(graph.Dependency{NugetID: "Serilog"}))
	// Output:
	// Newtonsoft.Json 13.0.1
	// Newtonsoft.Json(13.0.1)
	// Serilog
}

func ExampleClassify() {
	pkgs := []*graph.Package{
		{NugetID: "A", LocalVersion: "1.0", RemoteVersion: "1.0"},
		{NugetID: "A", LocalVersion: "2.0", RemoteVersion: "2.0"},
		{NugetID: "B", LocalVersion: "1.0", RemoteVersion: "1.1"},
		{NugetID: "C", LocalVersion: "3.0", RemoteVersion: "3.0"},
	}

	for _, p := range pkgs {
		fmt.Printf("%s: %s\n", p.Label(), graph.Classify(p, pkgs))
	}
	// Output:
	// A (1.0): multiple-versions
	// A (2.0): multiple-versions
	// B (1.0): version-mismatch
	// C (3.0): consistent
}
