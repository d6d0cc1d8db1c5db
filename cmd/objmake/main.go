// Command objmake generates perturbed parametric meshes from the command
// line and writes them as Wavefront OBJ files.
package main

func main() {
	Execute()
}
