package util

// InputsKey is the list holding serialized call arguments for an operation.
func InputsKey(name string) string { return name + ":inputs" }

// OutputsKey is the list holding serialized call results for an operation.
func OutputsKey(name string) string { return name + ":outputs" }
