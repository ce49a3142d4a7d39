package main

import "github.com/nsxzhou1114/author-blog/cmd"

func main() {
	cmd.Execute()
}
