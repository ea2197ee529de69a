// main.go - geojson-planet entry point
package main

import "geojson-planet/cmd"

func main() {
	cmd.Execute()
}
