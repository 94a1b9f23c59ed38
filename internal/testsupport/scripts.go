package testsupport

// FakeFFmpegScript copies the file after -i to the last argument, which is
// how "-i %in% ... %out%" templates are laid out.
const FakeFFmpegScript = `in=""
prev=""
for arg in "$@"; do
  if [ "$prev" = "-i" ]; then in="$arg"; fi
  prev="$arg"
done
[ -n "$in" ] || exit 1
cp "$in" "$prev"
`

// FakeExifToolScript answers "-comment <file>" reads from a sidecar file
// named <file>.comment and writes that sidecar for "-comment=<value>"
// rewrites. Every other argument is accepted and ignored.
const FakeExifToolScript = `value=""
set_value=0
read_tag=0
file=""
for arg in "$@"; do
  case "$arg" in
    -comment=*) value="${arg#-comment=}"; set_value=1 ;;
    -comment) read_tag=1 ;;
    -*) ;;
    *) file="$arg" ;;
  esac
done
if [ "$read_tag" = 1 ]; then
  if [ -f "$file.comment" ]; then
    printf 'Comment                         : %s\n' "$(cat "$file.comment")"
  fi
  exit 0
fi
if [ "$set_value" = 1 ] && [ -n "$file" ]; then
  printf '%s' "$value" > "$file.comment"
fi
exit 0
`

// FailingScript exits non-zero after writing to stderr.
const FailingScript = `echo "simulated failure" >&2
exit 3
`

// FakeGrowingFFmpegScript writes an output twice the size of its input.
const FakeGrowingFFmpegScript = `in=""
prev=""
for arg in "$@"; do
  if [ "$prev" = "-i" ]; then in="$arg"; fi
  prev="$arg"
done
cat "$in" "$in" > "$prev"
`
