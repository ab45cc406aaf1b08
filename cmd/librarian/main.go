package main

import "bookrental/cmd/librarian/command"

func main() {
	command.Execute()
}
