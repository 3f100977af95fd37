package main

import "github.com/shiroyk/cookiecat/cmd"

func main() {
	cmd.Execute()
}
