// Package builtin expands generator calls embedded in command-line values.
//
// A call is written {{$name(args)}} and is replaced by the generator's
// output before the value is used, so
//
//	hitfetch post /users name=bot-{{$randomString(6)}} id={{$uuid()}}
//
// sends a fresh name and id on every invocation. Available generators:
//   - uuid(): random UUID v4
//   - now(): current UTC time, RFC 3339
//   - timestamp(), timestampMs(): Unix time in seconds or milliseconds
//   - date(layout): current UTC date, Go layout, default 2006-01-02
//   - random(min, max): random integer in [min, max]
//   - randomString(length): random alphanumeric string
//   - randomEmail(): random address under a .com domain
//   - base64(value), sha256(value): encodings of a literal argument
package builtin
