// Command crudctl manages departments and users through the crudkit REST API.
package main

func main() {
	Execute()
}
