package local

type local struct {
	root string
}

type batch struct {
	l   *local
	ops []op
}

type op struct {
	del bool
	k   []byte
	v   []byte
}
