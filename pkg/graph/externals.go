package graph

// stdlibModules lists the top-level module names of the CPython standard
// library, the default registry of names a deployment host is assumed to
// provide. The set is configuration data, not introspection: hosts that
// strip parts of the stdlib, or preload extra libraries, supply their own
// registry on top of (or instead of) this one.
var stdlibModules = []string{
	"__future__", "_thread", "abc", "aifc", "argparse", "array", "ast",
	"asynchat", "asyncio", "asyncore", "atexit", "audioop", "base64",
	"bdb", "binascii", "bisect", "builtins", "bz2", "calendar", "cgi",
	"cgitb", "chunk", "cmath", "cmd", "code", "codecs", "codeop",
	"collections", "colorsys", "compileall", "concurrent", "configparser",
	"contextlib", "contextvars", "copy", "copyreg", "cProfile", "crypt",
	"csv", "ctypes", "curses", "dataclasses", "datetime", "dbm",
	"decimal", "difflib", "dis", "distutils", "doctest", "email",
	"encodings", "ensurepip", "enum", "errno", "faulthandler", "fcntl",
	"filecmp", "fileinput", "fnmatch", "fractions", "ftplib", "functools",
	"gc", "getopt", "getpass", "gettext", "glob", "graphlib", "grp",
	"gzip", "hashlib", "heapq", "hmac", "html", "http", "idlelib",
	"imaplib", "imghdr", "imp", "importlib", "inspect", "io", "ipaddress",
	"itertools", "json", "keyword", "lib2to3", "linecache", "locale",
	"logging", "lzma", "mailbox", "mailcap", "marshal", "math",
	"mimetypes", "mmap", "modulefinder", "msilib", "msvcrt",
	"multiprocessing", "netrc", "nis", "nntplib", "numbers", "operator",
	"optparse", "os", "ossaudiodev", "pathlib", "pdb", "pickle",
	"pickletools", "pipes", "pkgutil", "platform", "plistlib", "poplib",
	"posix", "pprint", "profile", "pstats", "pty", "pwd", "py_compile",
	"pyclbr", "pydoc", "queue", "quopri", "random", "re", "readline",
	"reprlib", "resource", "rlcompleter", "runpy", "sched", "secrets",
	"select", "selectors", "shelve", "shlex", "shutil", "signal", "site",
	"smtpd", "smtplib", "sndhdr", "socket", "socketserver", "spwd",
	"sqlite3", "ssl", "stat", "statistics", "string", "stringprep",
	"struct", "subprocess", "sunau", "symtable", "sys", "sysconfig",
	"syslog", "tabnanny", "tarfile", "telnetlib", "tempfile", "termios",
	"test", "textwrap", "threading", "time", "timeit", "tkinter", "token",
	"tokenize", "tomllib", "trace", "traceback", "tracemalloc", "tty",
	"turtle", "turtledemo", "types", "typing", "unicodedata", "unittest",
	"urllib", "uu", "uuid", "venv", "warnings", "wave", "weakref",
	"webbrowser", "winreg", "winsound", "wsgiref", "xdrlib", "xml",
	"xmlrpc", "zipapp", "zipfile", "zipimport", "zlib", "zoneinfo",
}

// StdlibExternals returns the default known-external registry: every
// top-level CPython standard library name.
func StdlibExternals() map[string]struct{} {
	externals := make(map[string]struct{}, len(stdlibModules))
	for _, name := range stdlibModules {
		externals[name] = struct{}{}
	}

	return externals
}

// ExternalsFrom builds a registry from the default stdlib set plus the
// given extra names.
func ExternalsFrom(extra ...string) map[string]struct{} {
	externals := StdlibExternals()
	for _, name := range extra {
		if name != "" {
			externals[name] = struct{}{}
		}
	}

	return externals
}
